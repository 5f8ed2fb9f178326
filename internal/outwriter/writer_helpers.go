package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/internal/mdstore"
)

func stdoutWriter() io.Writer { return os.Stdout }

func stderrWriter() io.Writer { return os.Stderr }

// writeOutput writes an encoded document to outputFile, or to stdout when no
// file is given. Files are replaced atomically so a failed export never leaves
// a half-written file behind.
func writeOutput(stdout, stderr io.Writer, outputFile string, data []byte, successMsg string) error {
	if outputFile == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := mdstore.WriteFileAtomic(outputFile, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(stdout, stderr io.Writer, outputFile string, writer func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return writer(stdout)
	}
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := writer(file); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}
