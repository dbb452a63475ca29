package sign

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/pdf"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/util/command"
)

type options struct {
	file       string
	identifier string
	userID     string
	message    string
	out        string
	annotate   bool
	chainID    int64
}

func New() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Signs a PDF with a derived demo wallet",
		Long: `Uploads a PDF to the signing backend, signs it with the
wallet derived from --identifier and writes the signed
document to --out.

Requires WALLET_DEMO_DERIVATION_ENABLED=true.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return run(ctx, cmd, s, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "PDF to sign")
	cmd.Flags().StringVarP(&opts.identifier, "identifier", "i", "", "Identifier the signing wallet is derived from, e.g. an email address")
	cmd.Flags().StringVarP(&opts.userID, "user-id", "u", "", "User id of the session, defaults to the identifier")
	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "Message shown to the signer")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output path, defaults to signed_document_<sessionId>.pdf")
	cmd.Flags().BoolVar(&opts.annotate, "annotate", false, "Stamp the signature metadata onto the first page")
	cmd.Flags().Int64Var(&opts.chainID, "chain-id", 0, "Chain id of the EIP-712 domain, resolved automatically when 0")

	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("identifier")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, s *api.Server, opts options) error {
	content, err := os.ReadFile(opts.file)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", opts.file)
	}

	address, err := s.Signing.DeriveWallet(opts.identifier)
	if err != nil {
		return errors.Wrap(err, "failed to derive wallet")
	}

	userID := opts.userID
	if userID == "" {
		userID = opts.identifier
	}

	session, err := s.Signing.CreateSigningSession(ctx, &signing.CreateRequest{
		Document: &signing.Document{
			FileName:    filepath.Base(opts.file),
			ContentType: signing.MIMETypePDF,
			Content:     content,
		},
		SignerAddress: address,
		UserID:        userID,
		Message:       opts.message,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create signing session")
	}

	log.Info().Str("sessionId", session.SessionID).Str("signer", address).Msg("Created signing session")

	var chainID *int64
	if opts.chainID > 0 {
		chainID = &opts.chainID
	}

	result, err := s.Signing.SignWithDerivedWallet(ctx, session.SessionID, opts.identifier, chainID)
	if err != nil {
		return errors.Wrap(err, "failed to sign document")
	}

	document, err := s.Signing.GetSignedDocument(ctx, session.SessionID)
	if err != nil {
		return errors.Wrap(err, "failed to download signed document")
	}

	if opts.annotate {
		signed, err := s.Signing.GetSigningSession(ctx, session.SessionID)
		if err != nil {
			return errors.Wrap(err, "failed to load signed session")
		}

		document, err = pdf.Annotate(document, pdf.Metadata{
			Signer:       signed.SignerAddress,
			SignedAt:     signed.UpdatedAt,
			UserID:       signed.UserID,
			DocumentHash: signed.DocumentHash,
			Signature:    signed.Signature,
		}, pdf.LabelsFor(s.Config.I18n.DefaultLanguage))
		if err != nil {
			return errors.Wrap(err, "failed to annotate signed document")
		}
	}

	out := opts.out
	if out == "" {
		out = fmt.Sprintf("signed_document_%s.pdf", session.SessionID)
	}

	if err := os.WriteFile(out, document, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write %s", out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Session:           %s\n", result.SessionID)
	fmt.Fprintf(w, "Signer:            %s\n", address)
	fmt.Fprintf(w, "Document hash:     %s\n", result.DocumentHash)
	fmt.Fprintf(w, "Signature:         %s\n", result.Signature)
	fmt.Fprintf(w, "Verification link: %s\n", result.VerificationLink)
	fmt.Fprintf(w, "Signed document:   %s\n", out)

	return nil
}
