// Package pdf stamps signature metadata onto signed documents.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

const (
	hashPrefixLength      = 20
	signaturePrefixLength = 30

	// Lower left corner of the first page, 8pt Helvetica.
	stampDescription = "fontname:Helvetica, points:8, position:bl, offset:25 90, scalefactor:1 abs, rotation:0, fillcolor:#000000, opacity:1"
)

var ErrEmptyDocument = errors.New("document is empty")

// Metadata is printed onto the document.
type Metadata struct {
	Signer       string
	SignedAt     time.Time
	UserID       string
	DocumentHash string
	Signature    string
}

// Labels are the captions of the stamped lines.
type Labels struct {
	Title     string
	Signer    string
	Date      string
	User      string
	Hash      string
	Signature string
}

var (
	SpanishLabels = Labels{
		Title:     "Documento firmado digitalmente",
		Signer:    "Firmante",
		Date:      "Fecha",
		User:      "Usuario",
		Hash:      "Hash",
		Signature: "Firma",
	}

	EnglishLabels = Labels{
		Title:     "Digitally signed document",
		Signer:    "Signer",
		Date:      "Date",
		User:      "User",
		Hash:      "Hash",
		Signature: "Signature",
	}
)

// LabelsFor returns the Spanish labels for Spanish tags and English otherwise.
func LabelsFor(tag language.Tag) Labels {
	if base, _ := tag.Base(); base.String() == "es" {
		return SpanishLabels
	}

	return EnglishLabels
}

// Text renders the stamp lines of m.
func (l Labels) Text(m Metadata) string {
	lines := []string{
		l.Title,
		fmt.Sprintf("%s: %s", l.Signer, m.Signer),
		fmt.Sprintf("%s: %s", l.Date, m.SignedAt.UTC().Format("2006-01-02 15:04:05 UTC")),
		fmt.Sprintf("%s: %s", l.User, m.UserID),
		fmt.Sprintf("%s: %s...", l.Hash, truncate(m.DocumentHash, hashPrefixLength)),
		fmt.Sprintf("%s: %s...", l.Signature, truncate(m.Signature, signaturePrefixLength)),
	}

	return strings.Join(lines, "\n")
}

// Annotate returns a copy of document with m stamped onto its first page.
func Annotate(document []byte, m Metadata, labels Labels) ([]byte, error) {
	if len(document) == 0 {
		return nil, ErrEmptyDocument
	}

	wm, err := api.TextWatermark(labels.Text(m), stampDescription, true, false, types.POINTS)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build signature stamp")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	out := &bytes.Buffer{}
	if err := api.AddWatermarks(bytes.NewReader(document), out, []string{"1"}, wm, conf); err != nil {
		return nil, errors.Wrap(err, "failed to stamp document")
	}

	return out.Bytes(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
