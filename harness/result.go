// Package harness samples a workload across worker goroutines and collects
// the measurements into a signed, serialisable result.
package harness

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/threadstone/threadstone/signing"
)

// Host describes the machine a result was measured on.
type Host struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUs      int    `json:"cpus"`
	GoVersion string `json:"go_version"`
}

// CurrentHost returns the Host of the running process.
func CurrentHost() Host {
	return Host{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
}

// Result holds the structured output of a benchmark run.
type Result struct {
	ID                  string    `json:"id"`
	Workload            string    `json:"workload"`
	Unit                string    `json:"unit"`
	Threads             int       `json:"threads"`
	Samples             int       `json:"samples"`
	IterationsPerSample int       `json:"iterations_per_sample"`
	Values              []float64 `json:"values"`
	SampleElapsedMs     []int64   `json:"sample_elapsed_ms"`
	Average             float64   `json:"average"`
	Min                 float64   `json:"min"`
	Max                 float64   `json:"max"`
	WorkingSetBytes     uint64    `json:"working_set_bytes"`
	Host                Host      `json:"host"`
	CreatedAt           time.Time `json:"created_at"`
	Signature           string    `json:"signature,omitempty"`
}

// Payload returns the bytes covered by the signature: the JSON encoding of
// the result with Signature cleared.
func (r *Result) Payload() ([]byte, error) {
	unsigned := *r
	unsigned.Signature = ""

	b, err := json.Marshal(&unsigned)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	return b, nil
}

// Sign sets Signature to the Ed25519 signature of Payload.
func (r *Result) Sign(key ed25519.PrivateKey) error {
	payload, err := r.Payload()
	if err != nil {
		return err
	}

	sig, err := signing.Sign(payload, key)
	if err != nil {
		return fmt.Errorf("sign result: %w", err)
	}

	r.Signature = sig

	return nil
}

// Verify checks Signature against pub. An unsigned result fails with
// signing.ErrUnsigned.
func (r *Result) Verify(pub ed25519.PublicKey) error {
	if r.Signature == "" {
		return signing.ErrUnsigned
	}

	payload, err := r.Payload()
	if err != nil {
		return err
	}

	if !signing.Verify(payload, r.Signature, pub) {
		return signing.ErrInvalidSignature
	}

	return nil
}

// WriteJSON writes the result as indented JSON.
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return nil
}

// WriteFile writes the result as indented JSON to path.
func (r *Result) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := r.WriteJSON(f); err != nil {
		f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}

// ReadResult decodes a result document.
func ReadResult(r io.Reader) (*Result, error) {
	var result Result
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	if result.Workload == "" {
		return nil, fmt.Errorf("decode JSON: missing workload")
	}

	return &result, nil
}

// ReadResultFile decodes the result document at path.
func ReadResultFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open result %s: %w", path, err)
	}
	defer f.Close()

	result, err := ReadResult(f)
	if err != nil {
		return nil, fmt.Errorf("read result %s: %w", path, err)
	}

	return result, nil
}
