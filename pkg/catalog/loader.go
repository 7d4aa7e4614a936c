package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Option configures a Loader.
type Option func(*Loader)

// WithFileSystem sets the fs.FS used to resolve SourceFromFS locations.
func WithFileSystem(fsys fs.FS) Option {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithLogger routes decoding warnings (unknown keys, empty catalogs) to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFormat forces a serialization instead of inferring it from the
// location's extension.
func WithFormat(format Format) Option {
	return func(l *Loader) {
		l.format = format
	}
}

// Loader reads catalog documents and turns them into validated catalogs.
type Loader struct {
	fs     fs.FS
	logger *slog.Logger
	format Format
}

// NewLoader constructs a Loader.
func NewLoader(options ...Option) *Loader {
	l := &Loader{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Load reads src with a default Loader.
func Load(ctx context.Context, src Source) (Catalog, error) {
	return NewLoader().Load(ctx, src)
}

// Load reads and validates the catalog identified by src.
func (l *Loader) Load(ctx context.Context, src Source) (Catalog, error) {
	if src == nil {
		return Catalog{}, errors.New("catalog: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return Catalog{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if l.fs == nil {
			return Catalog{}, errors.New("catalog: filesystem is not configured")
		}
		data, err = fs.ReadFile(l.fs, src.Location())
	default:
		err = fmt.Errorf("unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: read %s: %w", src.Location(), err)
	}
	return l.Parse(src.Location(), data)
}

// Parse decodes and validates raw catalog bytes. location is used for format
// inference and error messages only.
func (l *Loader) Parse(location string, data []byte) (Catalog, error) {
	format := l.format
	if format == "" {
		format = FormatFor(location)
	}

	records, err := decodeDocument(format, data)
	if err != nil {
		if errors.Is(err, errNotAList) {
			return Catalog{}, &ValidationError{Index: -1, Issues: []Issue{{Message: err.Error()}}}
		}
		return Catalog{}, fmt.Errorf("catalog: parse %s: %w", location, err)
	}
	if len(records) == 0 {
		l.logger.Warn("catalog is empty", "source", location)
	}

	rules := make([]FormatRule, 0, len(records))
	var errs []error
	for i, raw := range records {
		rule, unused, issues := decodeRecord(raw)
		for _, key := range unused {
			l.logger.Warn("catalog key ignored", "source", location, "record", i, "id", rule.ID, "key", key)
		}
		if len(issues) > 0 {
			errs = append(errs, &ValidationError{Index: i, ID: rule.ID, Issues: issues})
			continue
		}
		rules = append(rules, rule)
	}
	if len(errs) > 0 {
		return Catalog{}, errors.Join(errs...)
	}
	if err := checkDuplicates(rules); err != nil {
		return Catalog{}, err
	}
	return Catalog{source: location, rules: rules}, nil
}

func decodeDocument(format Format, data []byte) ([]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	switch value := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return value, nil
	default:
		return nil, errNotAList
	}
}

var errNotAList = errors.New("top-level value must be a list of records")

// decodeRecord maps one generic record onto a FormatRule. It returns the keys
// present in the record but unknown to FormatRule, and every issue found.
func decodeRecord(raw any) (FormatRule, []string, []Issue) {
	record, ok := normalizeKeys(raw).(map[string]any)
	if !ok {
		return FormatRule{}, nil, []Issue{{Message: "record must be an object"}}
	}

	var (
		rule   FormatRule
		meta   mapstructure.Metadata
		issues []Issue
	)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:   &meta,
		Result:     &rule,
		DecodeHook: scalarIdentifiers,
	})
	if err != nil {
		return FormatRule{}, nil, []Issue{{Message: err.Error()}}
	}
	missing := make(map[string]struct{})
	if err := decoder.Decode(record); err != nil {
		var decodeErr *mapstructure.Error
		if errors.As(err, &decodeErr) {
			for _, message := range decodeErr.Errors {
				issue := issueFromDecodeError(message)
				if issue.Field != "" {
					missing[issue.Field] = struct{}{}
				}
				issues = append(issues, issue)
			}
		} else {
			issues = append(issues, Issue{Message: err.Error()})
		}
	}

	unset := append([]string(nil), meta.Unset...)
	sort.Strings(unset)
	for _, key := range unset {
		if !isRequired(key) {
			continue
		}
		missing[key] = struct{}{}
		issues = append(issues, Issue{Field: key, Message: "is required"})
	}
	issues = append(issues, checkRule(rule, missing)...)

	unused := append([]string(nil), meta.Unused...)
	sort.Strings(unused)

	rule.PageSize = canonicalPageSize(rule.PageSize)
	return rule, unused, issues
}

// scalarIdentifiers lets id and year be written as bare numbers. Every other
// key must already carry the type FormatRule declares.
func scalarIdentifiers(from, to reflect.Value) (any, error) {
	record, ok := from.Interface().(map[string]any)
	if !ok || to.Type() != reflect.TypeOf(FormatRule{}) {
		return from.Interface(), nil
	}
	out := make(map[string]any, len(record))
	for key, value := range record {
		out[key] = value
	}
	for _, key := range []string{"id", "year"} {
		if text, ok := numberText(out[key]); ok {
			out[key] = text
		}
	}
	return out, nil
}

func numberText(value any) (string, bool) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

var quotedField = regexp.MustCompile(`'([^']+)'`)

// issueFromDecodeError lifts the field name mapstructure quotes in its
// messages ("cannot parse 'margins.left' as float: ...") into Issue.Field.
func issueFromDecodeError(message string) Issue {
	match := quotedField.FindStringSubmatch(message)
	if len(match) < 2 {
		return Issue{Message: message}
	}
	field := match[1]
	rest := strings.TrimSpace(strings.Replace(message, match[0], "", 1))
	rest = strings.TrimPrefix(rest, ":")
	return Issue{Field: field, Message: strings.Join(strings.Fields(rest), " ")}
}

// normalizeKeys converts map[any]any values produced by some YAML documents
// into map[string]any so mapstructure sees catalog keys as strings.
func normalizeKeys(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeKeys(item)
		}
		return out
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeKeys(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeKeys(item)
		}
		return v
	default:
		return value
	}
}
