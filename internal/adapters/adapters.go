// Package adapters implements the closed set of NormalizedInput
// producers: cloud-native DSPM tools (Macie, Purview, DLP), filesystem
// ACL readers (NTFS, NFS), Microsoft 365, Presidio, the built-in text
// scanner, and a catch-all for anything that only speaks the raw
// extract() contract.
package adapters

import (
	"context"
	"fmt"
	"runtime"

	"github.com/qualys/dspm/internal/core"
)

// Kind names one of the closed set of adapter variants.
type Kind string

const (
	KindMacie    Kind = "macie"
	KindPurview  Kind = "purview"
	KindDLP      Kind = "dlp"
	KindNTFS     Kind = "ntfs"
	KindNFS      Kind = "nfs"
	KindM365     Kind = "m365"
	KindPresidio Kind = "presidio"
	KindScanner  Kind = "scanner"
	KindExternal Kind = "external"
)

// Extractor is the one method every adapter variant implements: turn a
// source identifier (bucket/object key, file path, message ID, whatever
// the variant's world calls it) plus loose metadata into a
// NormalizedInput.
type Extractor interface {
	Kind() Kind
	Extract(ctx context.Context, source string, metadata map[string]string) (core.NormalizedInput, error)
}

// NTFSAdapter and NFSAdapter read permission bits directly; every other
// variant calls out to an external API. UnsupportedPlatform is returned
// (not panicked) when a permission read is attempted on the wrong OS.
var ErrUnsupportedPlatform = fmt.Errorf("permission read unsupported on %s", runtime.GOOS)
