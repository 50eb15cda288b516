package adapters

import (
	"context"
	"os"
	"runtime"

	"github.com/qualys/dspm/internal/core"
)

// NTFSAdapter reads Windows ACLs to determine exposure. On any other
// platform, Extract returns UnsupportedPlatform per spec §7 and the
// caller should treat the result as PRIVATE (the conservative stub
// value), not escalate it.
type NTFSAdapter struct{}

func NewNTFSAdapter() *NTFSAdapter { return &NTFSAdapter{} }

func (a *NTFSAdapter) Kind() Kind { return KindNTFS }

func (a *NTFSAdapter) Extract(ctx context.Context, source string, metadata map[string]string) (core.NormalizedInput, error) {
	if runtime.GOOS != "windows" {
		return core.NormalizedInput{Context: core.NormalizedContext{Exposure: core.ExposurePrivate}}, ErrUnsupportedPlatform
	}
	info, err := os.Stat(source)
	if err != nil {
		return core.NormalizedInput{}, err
	}
	exposure := core.ExposurePrivate
	if info.Mode().Perm()&0o004 != 0 {
		exposure = core.ExposureOrgWide
	}
	return core.NormalizedInput{Context: core.NormalizedContext{
		Exposure: exposure,
		Path:     source,
		Owner:    metadata["owner"],
	}}, nil
}

// NFSAdapter reads POSIX permission bits. World-readable/writable (the
// "other" bits) maps to ORG_WIDE exposure; anything narrower is PRIVATE.
// This works on every POSIX platform, so unlike NTFSAdapter it has no
// UnsupportedPlatform branch.
type NFSAdapter struct{}

func NewNFSAdapter() *NFSAdapter { return &NFSAdapter{} }

func (a *NFSAdapter) Kind() Kind { return KindNFS }

func (a *NFSAdapter) Extract(ctx context.Context, source string, metadata map[string]string) (core.NormalizedInput, error) {
	info, err := os.Stat(source)
	if err != nil {
		return core.NormalizedInput{}, err
	}
	perm := info.Mode().Perm()
	exposure := core.ExposurePrivate
	anonymous := false
	if perm&0o007 != 0 {
		exposure = core.ExposureOrgWide
		anonymous = perm&0o006 != 0
	}
	return core.NormalizedInput{Context: core.NormalizedContext{
		Exposure:        exposure,
		AnonymousAccess: anonymous,
		Path:            source,
		SizeBytes:       info.Size(),
		LastModified:    info.ModTime().Unix(),
	}}, nil
}
