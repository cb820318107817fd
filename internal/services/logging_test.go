package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceLogger_LogOperationLevels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantLevel  string
		wantStatus string
	}{
		{"rejected", duplicateCategory("add_category", "Quizzes"), "WARN", "rejected"},
		{"storage", storageError("save", errors.New("disk full")), "WARN", "storage_warning"},
		{"import", NewGradebookError("import_course", ErrMalformedImport, "bad", nil), "WARN", "import_failed"},
		{"validation", ValidationErrors{*NewValidationError("name", "must not be blank", "")}, "WARN", "validation_error"},
		{"unexpected", errors.New("boom"), "ERROR", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewServiceLogger(slog.New(slog.NewJSONHandler(&buf, nil)), LogConfig{Service: "gradebook", Component: "test"})

			logger.LogOperation(context.Background(), "op", time.Millisecond, tt.err)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantStatus, entry["status"])
			assert.Equal(t, "gradebook", entry["service"])
		})
	}
}

func TestServiceLogger_SuccessIsDebugUnlessEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewServiceLogger(slog.New(slog.NewJSONHandler(&buf, nil)), LogConfig{Service: "gradebook"})

	logger.WithOperation(context.Background(), "add_category").LogResult(nil, "category", "Labs")
	assert.Empty(t, buf.String())

	logger = NewServiceLogger(slog.New(slog.NewJSONHandler(&buf, nil)), LogConfig{Service: "gradebook", EnableDebug: true})
	logger.WithOperation(context.Background(), "add_category").LogResult(nil, "category", "Labs")
	assert.Contains(t, buf.String(), `"category":"Labs"`)
}

func TestFormatError(t *testing.T) {
	assert.Nil(t, FormatError(nil))

	formatted := FormatError(unknownCategory("move_assignments", "Labs"))
	assert.Equal(t, "data_integrity", formatted["type"])
	assert.Equal(t, "move_assignments", formatted["op"])
	assert.Equal(t, map[string]interface{}{"category": "Labs"}, formatted["context"])

	assert.Equal(t, "storage", FormatError(storageError("save", errors.New("x")))["type"])
	assert.Equal(t, "unknown", FormatError(errors.New("x"))["type"])
}
