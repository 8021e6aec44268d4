package intake

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode parses a diagnostic log from r. Unknown fields are tolerated
// so logs from newer firmware revisions still parse. The result is not
// validated; callers run Validate before diagnosis.
func Decode(r io.Reader) (*BatteryLog, error) {
	var log BatteryLog
	if err := json.NewDecoder(r).Decode(&log); err != nil {
		return nil, fmt.Errorf("decode battery log: %w", err)
	}
	return &log, nil
}

// LoadFile reads and decodes a diagnostic log from disk.
func LoadFile(path string) (*BatteryLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open battery log: %w", err)
	}
	defer f.Close()

	log, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return log, nil
}
