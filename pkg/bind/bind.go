// Package bind turns a JSON request body into a validated struct. It is the
// one place request bodies are read, so the size cap lives here too.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/andrianfauzi/warungku/config"
	"github.com/andrianfauzi/warungku/pkg/validate"
)

const defaultMaxBody = 4 << 20 // 4 MB

// JSON decodes r.Body into dest and runs the struct's validate tags.
// Validation failures come back as the errs map with a nil error; a body
// that is not JSON, or exceeds MAX_BODY_BYTES, is an error.
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return nil, decodeErr(err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

func decodeErr(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
	}
	return fmt.Errorf("invalid JSON: %w", err)
}

func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultMaxBody
	}
	return n
}
