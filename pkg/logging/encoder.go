package logging

import (
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// FlatEncoder is a Zap encoder that emits one flat JSON object per line,
// with structured fields merged into the top level for log aggregators.
type FlatEncoder struct {
	zapcore.Encoder
	config zapcore.EncoderConfig
}

// NewFlatEncoder creates a new flat-field encoder
func NewFlatEncoder(config zapcore.EncoderConfig) zapcore.Encoder {
	return &FlatEncoder{
		Encoder: zapcore.NewJSONEncoder(config),
		config:  config,
	}
}

// EncodeEntry encodes a log entry as a single flat JSON object
func (e *FlatEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	logObj := map[string]interface{}{
		"timestamp": entry.Time.Format(time.RFC3339Nano),
		"level":     entry.Level.String(),
		"message":   entry.Message,
		"logger":    entry.LoggerName,
	}

	// Add caller information if available
	if entry.Caller.Defined {
		logObj["file"] = entry.Caller.File
		logObj["line"] = entry.Caller.Line
		logObj["function"] = entry.Caller.Function
	}

	// Add stack trace if available
	if entry.Stack != "" {
		logObj["stack"] = entry.Stack
	}

	// Merge fields into the top-level object
	for _, field := range fields {
		switch field.Type {
		case zapcore.StringType:
			logObj[field.Key] = field.String
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
			logObj[field.Key] = field.Integer
		case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
			logObj[field.Key] = field.Integer
		case zapcore.Float64Type:
			logObj[field.Key] = math.Float64frombits(uint64(field.Integer))
		case zapcore.Float32Type:
			logObj[field.Key] = float64(math.Float32frombits(uint32(field.Integer)))
		case zapcore.BoolType:
			logObj[field.Key] = field.Integer == 1
		case zapcore.DurationType:
			logObj[field.Key] = time.Duration(field.Integer).String()
		case zapcore.TimeType:
			logObj[field.Key] = time.Unix(0, field.Integer).UTC().Format(time.RFC3339Nano)
		case zapcore.ErrorType:
			logObj[field.Key] = field.Interface.(error).Error()
		default:
			logObj[field.Key] = field.Interface
		}
	}

	buf := buffer.NewPool().Get()
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(logObj); err != nil {
		return nil, err
	}

	return buf, nil
}

// Clone creates a copy of the encoder
func (e *FlatEncoder) Clone() zapcore.Encoder {
	return &FlatEncoder{
		Encoder: e.Encoder.Clone(),
		config:  e.config,
	}
}
