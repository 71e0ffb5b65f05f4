package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter renders the views as JSON documents
type JSONFormatter struct {
	Indent string
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format { return FormatJSON }

func (f *JSONFormatter) encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	return enc.Encode(v)
}

// RenderEstimate writes est
func (f *JSONFormatter) RenderEstimate(w io.Writer, est EstimateView) error {
	return f.encode(w, est)
}

// RenderCatalog writes the catalog as an object keyed by service name
func (f *JSONFormatter) RenderCatalog(w io.Writer, catalog []AddonRate) error {
	out := make(map[string]string, len(catalog))
	for _, r := range catalog {
		out[r.ServiceName] = r.WeeklyRate
	}
	return f.encode(w, out)
}

// RenderQuote writes q
func (f *JSONFormatter) RenderQuote(w io.Writer, q AddonQuote) error {
	return f.encode(w, q)
}
