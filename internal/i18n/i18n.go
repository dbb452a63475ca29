package i18n

import (
	"embed"
	"fmt"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog/log"
	"github/chapool/go-docsign/internal/config"
	"golang.org/x/text/language"
)

//go:embed messages/*.toml
var messageFS embed.FS

// Data is passed to message templates.
type Data map[string]interface{}

// Service translates message keys into the best matching of the bundled languages.
type Service struct {
	matcher    language.Matcher
	supported  []language.Tag
	localizers map[language.Tag]*i18n.Localizer
}

// New loads the embedded message files. The configured default language is
// used whenever no requested language matches.
func New(cfg config.I18n) (*Service, error) {
	defaultLanguage := cfg.DefaultLanguage
	if defaultLanguage == language.Und {
		defaultLanguage = language.English
	}

	bundle := i18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := messageFS.ReadDir("messages")
	if err != nil {
		return nil, fmt.Errorf("failed to read message files: %w", err)
	}

	for _, entry := range entries {
		if _, err := bundle.LoadMessageFileFS(messageFS, path.Join("messages", entry.Name())); err != nil {
			return nil, fmt.Errorf("failed to load message file %s: %w", entry.Name(), err)
		}
	}

	tags := bundle.LanguageTags()
	localizers := make(map[language.Tag]*i18n.Localizer, len(tags))
	for _, tag := range tags {
		localizers[tag] = i18n.NewLocalizer(bundle, tag.String())
	}

	// the matcher falls back to its first tag
	supported := []language.Tag{defaultLanguage}
	for _, tag := range tags {
		if tag != defaultLanguage {
			supported = append(supported, tag)
		}
	}

	return &Service{
		matcher:    language.NewMatcher(supported),
		supported:  supported,
		localizers: localizers,
	}, nil
}

// Tags returns the languages messages are available in, default language first.
func (s *Service) Tags() []language.Tag {
	return append([]language.Tag(nil), s.supported...)
}

// ParseAcceptLanguage returns the best supported match for an Accept-Language header value.
func (s *Service) ParseAcceptLanguage(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		log.Debug().Err(err).Str("acceptLanguage", acceptLanguage).Msg("Failed to parse Accept-Language, using default")
	}

	return s.Match(tags...)
}

// Match returns the best supported language for tags.
func (s *Service) Match(tags ...language.Tag) language.Tag {
	_, idx, _ := s.matcher.Match(tags...)

	return s.supported[idx]
}

// Translate returns the message for key in lang. The key itself is returned if
// no translation exists.
func (s *Service) Translate(key string, lang language.Tag, data ...Data) string {
	localizer, ok := s.localizers[s.Match(lang)]
	if !ok {
		return key
	}

	cfg := &i18n.LocalizeConfig{MessageID: key}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}

	msg, err := localizer.Localize(cfg)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Str("lang", lang.String()).Msg("Missing translation")
		return key
	}

	return msg
}
