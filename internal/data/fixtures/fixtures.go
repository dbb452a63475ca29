package fixtures

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github/chapool/go-docsign/internal/signing/store"
	"github/chapool/go-docsign/internal/signing/typeddata"
)

const (
	SignerAddress = "0x51D08bcb16711098616F4fA8b41bD7EEf718b2bF"
	UserID        = "user-1234"
)

// MinimalPDF returns a single page PDF printing lines. Offsets in the xref
// table are computed, so strict parsers accept the output.
func MinimalPDF(lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf 72 720 Td 14 TL\n")
	for _, line := range lines {
		fmt.Fprintf(&content, "(%s) '\n", escapePDFString(line))
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	buf := &bytes.Buffer{}
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, len(objects))
	for i, obj := range objects {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func escapePDFString(s string) string {
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(s)
}

// Sessions returns demo sessions covering every status, created relative to now.
func Sessions(now time.Time) []*store.Session {
	document := MinimalPDF("Demo contract")
	documentHash := typeddata.HashDocument(document)

	statuses := []store.Status{
		store.StatusPending,
		store.StatusSigned,
		store.StatusVerified,
		store.StatusFailed,
		store.StatusExpired,
	}

	sessions := make([]*store.Session, 0, len(statuses))
	for i, status := range statuses {
		createdAt := now.Add(-time.Duration(len(statuses)-i) * time.Hour).UTC()

		session := &store.Session{
			SessionID:     fmt.Sprintf("fixture-%s", status),
			DocumentHash:  documentHash,
			SignerAddress: SignerAddress,
			Message:       "Document signing request",
			UserID:        UserID,
			Timestamp:     createdAt.Format(time.RFC3339),
			Status:        status,
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		}

		if status == store.StatusSigned || status == store.StatusVerified {
			session.Signature = "0x" + strings.Repeat("ab", 64) + "1b"
			session.VerificationLink = "https://verify.example.com/" + session.SessionID
		}

		sessions = append(sessions, session)
	}

	return sessions
}

// Seed saves Sessions into st, skipping ids that already exist.
func Seed(ctx context.Context, st store.Store, now time.Time) (int, error) {
	inserted := 0
	for _, session := range Sessions(now) {
		if err := st.Save(ctx, session); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				continue
			}
			return inserted, errors.Wrapf(err, "failed to seed session %s", session.SessionID)
		}
		inserted++
	}

	return inserted, nil
}
