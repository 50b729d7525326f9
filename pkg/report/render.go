package report

import (
	"bytes"
	"encoding/json"
	"io"

	pkgerrors "github.com/pkg/errors"
)

// Render formats reports as a JSON array or as one plain text line per report.
func Render(reports []Report, asJSON bool) ([]byte, error) {
	if asJSON {
		if reports == nil {
			reports = []Report{}
		}
		b, err := json.Marshal(reports)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to marshal reports")
		}
		return b, nil
	}

	var buf bytes.Buffer
	for _, r := range reports {
		buf.WriteString(r.String())
	}
	return buf.Bytes(), nil
}

// Write renders reports and writes them to w in a single call, so the
// output does not interleave with log lines.
func Write(w io.Writer, reports []Report, asJSON bool) error {
	b, err := Render(reports, asJSON)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	if _, err := w.Write(b); err != nil {
		return pkgerrors.Wrap(err, "unable to write to stdout")
	}
	return nil
}
