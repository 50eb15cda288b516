package adapters

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/iam"
	"cloud.google.com/go/storage"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

// DLPAdapter normalizes Google Cloud DLP inspection results. It
// constructs a real GCS client — the touchpoint a production DLP
// adapter would use to fetch the object being classified — without
// importing DLP's own inspect API (out of scope per §1).
type DLPAdapter struct {
	storageClient *storage.Client
	registry      *registry.Registry
}

func NewDLPAdapter(ctx context.Context, reg *registry.Registry) (*DLPAdapter, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("constructing GCS client for DLP adapter: %w", err)
	}
	return &DLPAdapter{storageClient: client, registry: reg}, nil
}

func (a *DLPAdapter) Kind() Kind { return KindDLP }

// DLPInfoType mirrors one google.privacy.dlp.v2.InfoType finding.
type DLPInfoType struct {
	Name       string
	Likelihood string // VERY_UNLIKELY..VERY_LIKELY
	Count      int
}

var dlpLikelihoodConfidence = map[string]float64{
	"VERY_LIKELY":   core.ConfidenceVeryHigh,
	"LIKELY":        core.ConfidenceHigh,
	"POSSIBLE":      core.ConfidenceMedium,
	"UNLIKELY":      core.ConfidenceLow,
	"VERY_UNLIKELY": core.ConfidenceMinimal,
}

func (a *DLPAdapter) Extract(ctx context.Context, source string, metadata map[string]string) (core.NormalizedInput, error) {
	normCtx := core.NormalizedContext{Exposure: core.ExposurePrivate}
	a.enrichFromGCS(ctx, bucketNameFromGCSSource(source), &normCtx)

	infoType, ok := metadata["dlp_info_type"]
	if !ok {
		return core.NormalizedInput{Context: normCtx}, nil
	}

	confidence := dlpLikelihoodConfidence[metadata["dlp_likelihood"]]
	if confidence == 0 {
		confidence = core.ConfidenceMedium
	}

	return core.NormalizedInput{
		Entities: []core.Entity{{
			Type:       a.registry.NormalizeType(infoType),
			Count:      1,
			Confidence: confidence,
			Source:     string(KindDLP),
		}},
		Context: normCtx,
	}, nil
}

// enrichFromGCS checks the bucket's IAM policy for public bindings
// (allUsers/allAuthenticatedUsers) and its default encryption/versioning
// attributes. It degrades silently on any GCS error: a DLP finding
// without live bucket access still scores at the metadata-only default.
func (a *DLPAdapter) enrichFromGCS(ctx context.Context, bucketName string, normCtx *core.NormalizedContext) {
	if bucketName == "" {
		return
	}
	bucket := a.storageClient.Bucket(bucketName)

	if policy, err := bucket.IAM().Policy(ctx); err == nil {
		for _, role := range policy.Roles() {
			for _, member := range policy.Members(role) {
				if member == iam.AllUsers || member == iam.AllAuthenticatedUsers {
					normCtx.Exposure = core.ExposurePublic
					normCtx.AnonymousAccess = true
				}
			}
		}
	}

	if attrs, err := bucket.Attrs(ctx); err == nil && attrs != nil {
		normCtx.Versioning = attrs.VersioningEnabled
		if attrs.Encryption != nil && attrs.Encryption.DefaultKMSKeyName != "" {
			normCtx.Encryption = core.EncryptionCustomerManaged
		} else {
			normCtx.Encryption = core.EncryptionPlatform
		}
	}
}

// bucketNameFromGCSSource accepts a bare bucket name or a "gs://bucket/object" URI.
func bucketNameFromGCSSource(source string) string {
	source = strings.TrimPrefix(source, "gs://")
	if idx := strings.Index(source, "/"); idx >= 0 {
		source = source[:idx]
	}
	return source
}
