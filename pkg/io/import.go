package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/giftring/pkg/assign"
	"github.com/matzehuels/giftring/pkg/errors"
	"github.com/matzehuels/giftring/pkg/pipeline"
	"github.com/matzehuels/giftring/pkg/roster"
)

// Format is a roster file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported roster file %q (use .toml or .json)", path)
}

// Duration is a time.Duration written as a Go duration string ("1500ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Settings are the draw options stored in a roster file.
type Settings struct {
	Policy         string   `json:"policy,omitempty" toml:"policy,omitempty"`
	RetryBudget    int      `json:"retry_budget,omitempty" toml:"retry_budget,omitempty"`
	Seed           *uint64  `json:"seed,omitempty" toml:"seed,omitempty"`
	SearchTimeout  Duration `json:"search_timeout,omitempty" toml:"search_timeout,omitempty"`
	MaxSearchNodes int      `json:"max_search_nodes,omitempty" toml:"max_search_nodes,omitempty"`
}

// RosterFile is the decoded content of a roster file.
type RosterFile struct {
	Settings     Settings       `json:"settings" toml:"settings"`
	Participants []roster.Entry `json:"participants" toml:"participants"`
}

// Options converts the file into draw options. Zero settings keep the
// pipeline defaults.
func (f *RosterFile) Options() pipeline.Options {
	return pipeline.Options{
		Participants:    f.Participants,
		Policy:          f.Settings.Policy,
		RetryBudget:     f.Settings.RetryBudget,
		Seed:            f.Settings.Seed,
		SearchTimeoutMS: pipeline.TimeoutMS(time.Duration(f.Settings.SearchTimeout)),
		MaxSearchNodes:  f.Settings.MaxSearchNodes,
	}
}

// ReadRoster decodes a roster file from r.
// Participants are not validated here; pass them to roster.Normalize.
func ReadRoster(r io.Reader, format Format) (*RosterFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var f RosterFile
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML roster")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q in roster", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON roster")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown roster format %q", format)
	}
	return &f, nil
}

// ImportRoster reads the roster file at path.
func ImportRoster(path string) (*RosterFile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRoster(f, format)
}

// participantRef accepts either a bare id or a report participant object.
type participantRef roster.ID

func (p *participantRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*p = participantRef(id)
		return nil
	}
	var obj assign.ReportParticipant
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("participant must be an id or an object with an id: %w", err)
	}
	*p = participantRef(obj.ID)
	return nil
}

type assignmentDoc struct {
	Pairs []struct {
		Giver    participantRef `json:"giver"`
		Receiver participantRef `json:"receiver"`
	} `json:"pairs"`
}

// ReadAssignment decodes the pairs of a saved report or assignment.
func ReadAssignment(r io.Reader) ([]assign.Pair, error) {
	var doc assignmentDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode assignment")
	}
	if len(doc.Pairs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "assignment has no pairs")
	}
	pairs := make([]assign.Pair, len(doc.Pairs))
	for i, p := range doc.Pairs {
		pairs[i] = assign.Pair{Giver: roster.ID(p.Giver), Receiver: roster.ID(p.Receiver)}
	}
	return pairs, nil
}

// ImportAssignment reads the assignment file at path.
func ImportAssignment(path string) ([]assign.Pair, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAssignment(f)
}

// ReadReport decodes a report written by [WriteReport].
func ReadReport(r io.Reader) (assign.Report, error) {
	var rep assign.Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return assign.Report{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode report")
	}
	if rep.Status == "" {
		return assign.Report{}, errors.New(errors.ErrCodeInvalidFormat, "not a draw report: missing status")
	}
	return rep, nil
}

// ImportReport reads the report file at path.
func ImportReport(path string) (assign.Report, error) {
	f, err := openFile(path)
	if err != nil {
		return assign.Report{}, err
	}
	defer f.Close()
	return ReadReport(f)
}

func openFile(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
