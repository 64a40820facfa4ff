package style

import (
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/smapshot/pkg/errors"
)

// Load reads a TOML style file over Default. An empty path returns Default.
func Load(path string) (Style, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Style{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "style file %s", path)
		}
		return Style{}, err
	}
	return Parse(string(data))
}

// Parse decodes TOML over Default. Unknown keys are rejected so typos do
// not pass silently. Road entries missing a field inherit it from the
// built-in entry of the same category, or from the default entry.
func Parse(data string) (Style, error) {
	st := Default()
	base := st.Clone()
	st.Roads = nil

	md, err := toml.Decode(data, &st)
	if err != nil {
		return Style{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "decode style")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		slices.Sort(names)
		return Style{}, errors.New(errors.ErrCodeInvalidStyle, "unknown style keys: %s", strings.Join(names, ", "))
	}

	roads := base.Roads
	for cat, r := range st.Roads {
		inherit := base.Road(cat)
		if r.Color == "" {
			r.Color = inherit.Color
		}
		if r.Outline == "" {
			r.Outline = inherit.Outline
		}
		if r.Width == 0 {
			r.Width = inherit.Width
		}
		roads[cat] = r
	}
	st.Roads = roads

	if err := st.Validate(); err != nil {
		return Style{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "invalid style")
	}
	return st, nil
}

// Encode writes s as TOML.
func Encode(w io.Writer, s Style) error {
	return toml.NewEncoder(w).Encode(s)
}
