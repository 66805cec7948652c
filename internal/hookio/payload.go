// Package hookio decodes the JSON payload an AI-coding-assistant harness
// pipes to a hook on stdin. The shape varies by lifecycle point, so all
// fields are optional and every decoding problem degrades to a best-effort
// payload instead of an error.
package hookio

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// payloadSchemaJSON accepts the three caller shapes: per-edit hooks send
// {tool_input:{file_path}}, task hooks send {task_subject}, session-stop
// hooks send {cwd}.
const payloadSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "tool_input": {
      "type": "object",
      "properties": {
        "file_path": {"type": "string"}
      }
    },
    "file_path": {"type": "string"},
    "task_subject": {"type": "string"},
    "cwd": {"type": "string"}
  }
}`

var (
	payloadSchema  *jsonschema.Schema
	defaultPrinter = message.NewPrinter(language.English)
	filePathRe     = regexp.MustCompile(`"file_path"\s*:\s*"([^"]+)"`)
)

func init() {
	var schemaDoc any
	if err := json.Unmarshal([]byte(payloadSchemaJSON), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded payload schema: %v", err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("payload.schema.json", schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add payload schema resource: %v", err))
	}
	sch, err := compiler.Compile("payload.schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile payload schema: %v", err))
	}
	payloadSchema = sch
}

// Payload holds the fields hookgate cares about across all caller shapes.
// The zero Payload means "run everything, no filtering".
type Payload struct {
	FilePath    string
	TaskSubject string
	CWD         string
}

// Decode reads a harness payload from r. It never returns an error: empty
// input yields the zero Payload, malformed JSON falls back to a regex scan
// for a file_path-like value, and schema violations are logged then ignored.
func Decode(r io.Reader) Payload {
	data, err := io.ReadAll(r)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return Payload{}
	}

	var raw struct {
		ToolInput struct {
			FilePath string `json:"file_path"`
		} `json:"tool_input"`
		FilePath    string `json:"file_path"`
		TaskSubject string `json:"task_subject"`
		CWD         string `json:"cwd"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Debug("payload is not valid JSON, using regex fallback", "error", err)
		return Payload{FilePath: extractFilePath(string(data))}
	}

	for _, msg := range validatePayload(data) {
		slog.Debug("payload schema violation", "violation", msg)
	}

	p := Payload{
		FilePath:    raw.ToolInput.FilePath,
		TaskSubject: raw.TaskSubject,
		CWD:         raw.CWD,
	}
	if p.FilePath == "" {
		p.FilePath = raw.FilePath
	}
	return p
}

// extractFilePath is the fallback extractor for callers that send payloads
// we cannot parse as JSON.
func extractFilePath(data string) string {
	if m := filePathRe.FindStringSubmatch(data); m != nil {
		return m[1]
	}
	return ""
}

func validatePayload(data []byte) []string {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("parse: %v", err)}
	}
	err := payloadSchema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var msgs []string
	collectSchemaErrors(ve, &msgs)
	return msgs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, msgs)
	}
}
