package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/tidwall/jsonc"

	"github.com/joshuapare/booxkit/pkg/notetree"
)

// recordView is the machine-readable form of a record. Raw ranges are
// lowercase hex so every output format shows them the same way.
type recordView struct {
	Offset        int      `json:"offset"                   yaml:"offset"`
	Length        int      `json:"length"                   yaml:"length"`
	LeadIn        string   `json:"lead_in"                  yaml:"lead_in"`
	ID            string   `json:"id"                       yaml:"id"`
	SecondaryID   string   `json:"secondary_id,omitempty"   yaml:"secondary_id,omitempty"`
	Block         string   `json:"block"                    yaml:"block"`
	Name          string   `json:"name"                     yaml:"name"`
	ActiveScene   string   `json:"active_scene"             yaml:"active_scene"`
	Config40      string   `json:"config_40"                yaml:"config_40"`
	Scenes        []string `json:"scenes"                   yaml:"scenes"`
	Raw78         string   `json:"raw_78"                   yaml:"raw_78"`
	Blob78        string   `json:"blob_78"                  yaml:"blob_78"`
	RawAA         string   `json:"raw_aa"                   yaml:"raw_aa"`
	BlobAA        string   `json:"blob_aa"                  yaml:"blob_aa"`
	RawB5         string   `json:"raw_b5"                   yaml:"raw_b5"`
	RawBD         string   `json:"raw_bd"                   yaml:"raw_bd"`
	RawC2         string   `json:"raw_c2"                   yaml:"raw_c2"`
	TextC2        string   `json:"text_c2"                  yaml:"text_c2"`
	D0            d0View   `json:"d0"                       yaml:"d0"`
	TrailerSuffix string   `json:"trailer_suffix,omitempty" yaml:"trailer_suffix,omitempty"`
}

type d0View struct {
	Extension string `json:"extension"       yaml:"extension"`
	Head      string `json:"head"            yaml:"head"`
	Ext       string `json:"ext,omitempty"   yaml:"ext,omitempty"`
	Extra     string `json:"extra,omitempty" yaml:"extra,omitempty"`
	Tail      string `json:"tail"            yaml:"tail"`
}

func newRecordView(r *notetree.Record, pretty bool) recordView {
	v := recordView{
		Offset:      r.Offset,
		Length:      r.Length,
		LeadIn:      hex.EncodeToString(r.LeadIn[:]),
		ID:          r.ID.String(),
		Block:       hex.EncodeToString(r.Block[:]),
		Name:        r.Name,
		ActiveScene: blobText(r.ActiveScene.Text, pretty),
		Config40:    hex.EncodeToString(r.Config40[:]),
		Raw78:       hex.EncodeToString(r.Raw78[:]),
		Blob78:      blobText(r.Blob78.Text, pretty),
		RawAA:       hex.EncodeToString([]byte{r.RawAA}),
		BlobAA:      blobText(r.BlobAA.Text, pretty),
		RawB5:       hex.EncodeToString(r.RawB5[:]),
		RawBD:       hex.EncodeToString(r.RawBD[:]),
		RawC2:       hex.EncodeToString([]byte{r.RawC2}),
		TextC2:      r.TextC2,
		D0: d0View{
			Extension: r.D0.Extension.String(),
			Head:      hex.EncodeToString(r.D0.Head[:]),
			Tail:      hex.EncodeToString(r.D0.Tail[:]),
		},
	}
	v.TrailerSuffix = hex.EncodeToString(r.TrailerSuffix)
	if r.SecondaryID.Valid {
		v.SecondaryID = r.SecondaryID.UUID.String()
	}
	for _, s := range r.Scenes {
		v.Scenes = append(v.Scenes, blobText(s.Text, pretty))
	}
	if r.D0.Extension >= notetree.D0Short {
		v.D0.Ext = hex.EncodeToString(r.D0.Ext[:])
	}
	if r.D0.Extension == notetree.D0Long {
		v.D0.Extra = hex.EncodeToString([]byte{r.D0.Extra})
	}
	return v
}

// blobText optionally re-indents a JSON blob. Comments and trailing commas
// are stripped first; a blob that still does not indent is kept verbatim.
func blobText(s string, pretty bool) string {
	if !pretty || s == "" {
		return s
	}
	var out bytes.Buffer
	if err := json.Indent(&out, jsonc.ToJSON([]byte(s)), "", "  "); err != nil {
		return s
	}
	return out.String()
}

// errorView describes a decode failure.
type errorView struct {
	Offset   int    `json:"offset"             yaml:"offset"`
	Field    string `json:"field,omitempty"    yaml:"field,omitempty"`
	Kind     string `json:"kind"               yaml:"kind"`
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"   yaml:"actual,omitempty"`
	Message  string `json:"message"            yaml:"message"`
}

func newErrorView(err error) *errorView {
	if err == nil {
		return nil
	}
	v := &errorView{Kind: errorKind(err), Message: err.Error()}
	var fe *notetree.FieldError
	if errors.As(err, &fe) {
		v.Offset = fe.Offset
		v.Field = fe.Field
		v.Expected = hex.EncodeToString(fe.Expected)
		v.Actual = hex.EncodeToString(fe.Actual)
	}
	return v
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, notetree.ErrTruncated):
		return "truncated"
	case errors.Is(err, notetree.ErrGrammarViolation):
		return "grammar_violation"
	case errors.Is(err, notetree.ErrMalformedIdentifier):
		return "malformed_identifier"
	case errors.Is(err, notetree.ErrUnterminatedJSON):
		return "unterminated_json"
	case errors.Is(err, notetree.ErrInvalidText):
		return "invalid_text"
	default:
		return "error"
	}
}
