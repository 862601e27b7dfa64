package commands

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/allisson/secretcore/internal/keyaccess"
	"github.com/allisson/secretcore/internal/secretengine"
)

// RunCreateMasterKey generates a fresh master key for the requested
// algorithm and prints the MASTER_KEY/MASTER_ALGORITHM environment
// variables expected by config.Load. The master layer never accepts an
// RSA tag (§6), so an RSA algorithm is rejected here rather than silently
// generating unusable key material.
func RunCreateMasterKey(writer io.Writer, algorithm string) error {
	if algorithm == "" {
		algorithm = string(secretengine.DefaultAlgorithm)
	}

	if secretengine.IsRSA(secretengine.Algorithm(algorithm)) {
		return fmt.Errorf("master key algorithm cannot be an RSA tag: %s", algorithm)
	}

	generatedAlgo, key, err := keyaccess.GenerateAppKey(algorithm)
	if err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer func() {
		for i := range key {
			key[i] = 0
		}
	}()

	encodedKey := hex.EncodeToString(key)

	_, _ = fmt.Fprintln(writer, "# Master Key Configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "MASTER_KEY=\"%s\"\n", encodedKey)
	_, _ = fmt.Fprintf(writer, "MASTER_ALGORITHM=\"%s\"\n", generatedAlgo)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Store this value securely; it is never stored in the database itself.")

	return nil
}
