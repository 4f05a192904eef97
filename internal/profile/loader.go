package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/hitksoup/internal/model"
)

// definition is the flat on-disk profile format.
type definition struct {
	URL          string `json:"url" yaml:"url"`
	RollTextBox  string `json:"roll_tb_name" yaml:"roll_tb_name"`
	SemDropdown  string `json:"sem_dd_name" yaml:"sem_dd_name"`
	SubmitButton string `json:"submit_bt_name" yaml:"submit_bt_name"`
	NameID       string `json:"name_id" yaml:"name_id"`
	RollID       string `json:"roll_id" yaml:"roll_id"`
	RegID        string `json:"reg_id" yaml:"reg_id"`
	OddGPAID     string `json:"sgpao_id" yaml:"sgpao_id"`
	EvenGPAID    string `json:"sgpae_id" yaml:"sgpae_id"`
	YearGPAID    string `json:"ygpa_id" yaml:"ygpa_id"`

	MissingMarker string `json:"missing_marker" yaml:"missing_marker"`

	NameLabel    *string `json:"name_label" yaml:"name_label"`
	RollLabel    *string `json:"roll_label" yaml:"roll_label"`
	RegLabel     *string `json:"reg_label" yaml:"reg_label"`
	OddGPALabel  *string `json:"sgpao_label" yaml:"sgpao_label"`
	EvenGPALabel *string `json:"sgpae_label" yaml:"sgpae_label"`
	YearGPALabel *string `json:"ygpa_label" yaml:"ygpa_label"`
}

// Loader resolves validated profiles from a Store.
type Loader struct {
	store  Store
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader over store.
func NewLoader(store Store, opts ...Option) *Loader {
	l := &Loader{store: store}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Resolve parses the semester and year, locates the matching definition and
// validates it. The returned error is always a *LoadError.
func (l *Loader) Resolve(semester, year string) (model.Profile, error) {
	sem, err := model.ParseSemester(semester, year)
	if err != nil {
		return model.Profile{}, &LoadError{Kind: ErrInvalidDescriptor, Err: err}
	}
	return l.ResolveSemester(sem)
}

// ResolveSemester is Resolve for an already parsed Semester.
func (l *Loader) ResolveSemester(sem model.Semester) (model.Profile, error) {
	if sem.Number < model.MinSemester || sem.Number > model.MaxSemester {
		return model.Profile{}, &LoadError{Kind: ErrInvalidDescriptor, Err: model.ErrInvalidSemester}
	}

	key := sem.Key()
	data, name, err := l.store.Lookup(key)
	if err != nil {
		if errors.Is(err, ErrDefinitionNotFound) {
			return model.Profile{}, &LoadError{
				Kind:   ErrProfileMissing,
				Key:    key,
				Detail: fmt.Sprintf("no definition for %s %s semester", sem.Year, sem.Parity()),
			}
		}
		return model.Profile{}, &LoadError{Kind: ErrInvalidProfile, Key: key, Err: err}
	}

	def, err := decode(name, data)
	if err != nil {
		return model.Profile{}, &LoadError{Kind: ErrInvalidProfile, Key: key, Detail: "malformed " + name, Err: err}
	}

	p, err := def.toProfile(key, sem)
	if err != nil {
		return model.Profile{}, &LoadError{Kind: ErrInvalidProfile, Key: key, Detail: err.Error()}
	}

	l.logger.Debug("profile resolved",
		"key", key,
		"source", name,
		"url", p.SourceURL,
		"even_fields", p.HasEvenFields(),
	)

	return p, nil
}

// decode parses data by the extension of name.
func decode(name string, data []byte) (*definition, error) {
	var def definition

	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&def); err != nil {
			return nil, err
		}
	}

	return &def, nil
}

// toProfile validates the definition and converts it.
func (d *definition) toProfile(key string, sem model.Semester) (model.Profile, error) {
	required := []struct {
		key   string
		value string
	}{
		{"url", d.URL},
		{"roll_tb_name", d.RollTextBox},
		{"sem_dd_name", d.SemDropdown},
		{"submit_bt_name", d.SubmitButton},
		{"name_id", d.NameID},
		{"reg_id", d.RegID},
		{"roll_id", d.RollID},
		{"sgpao_id", d.OddGPAID},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return model.Profile{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	even := strings.TrimSpace(d.EvenGPAID)
	year := strings.TrimSpace(d.YearGPAID)
	if (even == "") != (year == "") {
		return model.Profile{}, errors.New("sgpae_id and ygpa_id must be set together")
	}

	if err := validateURL(d.URL); err != nil {
		return model.Profile{}, err
	}

	return model.Profile{
		Key:           key,
		Semester:      sem,
		SourceURL:     strings.TrimSpace(d.URL),
		RollField:     strings.TrimSpace(d.RollTextBox),
		SemesterField: strings.TrimSpace(d.SemDropdown),
		SubmitField:   strings.TrimSpace(d.SubmitButton),
		NameID:        strings.TrimSpace(d.NameID),
		RollID:        strings.TrimSpace(d.RollID),
		RegID:         strings.TrimSpace(d.RegID),
		OddGPAID:      strings.TrimSpace(d.OddGPAID),
		EvenGPAID:     even,
		YearGPAID:     year,
		MissingMarker: d.MissingMarker,
		Labels:        d.labels(),
	}, nil
}

// labels overlays configured labels on the defaults. An explicitly empty
// label disables stripping for that field.
func (d *definition) labels() model.Labels {
	l := model.DefaultLabels()
	overlay := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	overlay(&l.Name, d.NameLabel)
	overlay(&l.Roll, d.RollLabel)
	overlay(&l.RegistrationNumber, d.RegLabel)
	overlay(&l.OddGPA, d.OddGPALabel)
	overlay(&l.EvenGPA, d.EvenGPALabel)
	overlay(&l.YearGPA, d.YearGPALabel)
	return l
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("url is not valid: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("url must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host: %q", raw)
	}
	return nil
}
