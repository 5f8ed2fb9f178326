package core

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/internal/mdstore"
	"github.com/huangsam/ctmeta/schema"
	"github.com/sirupsen/logrus"
)

// Encodings reported in a wrap envelope.
const (
	EncodingUTF8   = "utf-8"
	EncodingBase64 = "base64"
)

// BuildEnvelope describes an arbitrary file as a single record suitable for merging.
// UTF-8 content is embedded as text, anything else as base64.
func BuildEnvelope(path string) (*schema.Record, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	sum := sha256.Sum256(raw)

	r := schema.NewRecord()
	r.Set(schema.SourcePathField, abs)
	r.Set("filename", filepath.Base(abs))
	r.Set("extension", strings.TrimPrefix(filepath.Ext(abs), "."))
	r.Set("size_bytes", len(raw))
	r.Set("sha256", hex.EncodeToString(sum[:]))
	if utf8.Valid(raw) {
		r.Set("encoding", EncodingUTF8)
		r.Set("content_text", string(raw))
	} else {
		r.Set("encoding", EncodingBase64)
		r.Set("content_base64", base64.StdEncoding.EncodeToString(raw))
	}
	return r, nil
}

// ExecuteWrap writes the envelope of input to output.
// It serves as the main entry point for the 'wrap' command.
func ExecuteWrap(ctx context.Context, input, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	envelope, err := BuildEnvelope(input)
	if err != nil {
		return err
	}
	data, err := mdstore.EncodeRecord(envelope)
	if err != nil {
		return err
	}
	outPath, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", output, err)
	}
	if err := mdstore.WriteFileAtomic(outPath, data); err != nil {
		return err
	}
	contract.Logger().WithFields(logrus.Fields{
		"input":    envelope.StringField(schema.SourcePathField),
		"output":   outPath,
		"encoding": envelope.StringField("encoding"),
	}).Info("wrapped file")
	return nil
}
