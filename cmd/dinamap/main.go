// Package main provides the dinamap CLI: inspection and transfer tooling
// for the map-annotation session core.
package main

import (
	"errors"
	"fmt"
	"os"

	"dinamap/internal/docstore"
	"dinamap/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode classifies an error: defects in the user's input or documents
// exit 1, everything else (IO, network, backend) exits 2.
func exitCode(err error) int {
	userErrors := []error{
		types.ErrInvalidDocument,
		types.ErrSchemaError,
		types.ErrDuplicateID,
		types.ErrNotFound,
		types.ErrLayerNotFound,
		types.ErrDuplicateOrder,
		types.ErrUnknownLayerKind,
		docstore.ErrDocumentNotFound,
		docstore.ErrNoLayerConfig,
		errNoMatch,
	}
	for _, sentinel := range userErrors {
		if errors.Is(err, sentinel) {
			return exitUserError
		}
	}
	return exitSysError
}
