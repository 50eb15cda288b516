package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmsTypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

// MacieAdapter normalizes Amazon Macie classification job results into
// NormalizedInput. Macie's own findings API stays out of scope (§1) and
// findings arrive pre-serialized via metadata, but the bucket-level
// exposure and encryption signals are real: this adapter asks S3
// directly rather than trusting whatever the caller claims about the
// bucket.
type MacieAdapter struct {
	cfg      aws.Config
	s3       *s3.Client
	kms      *kms.Client
	sts      *sts.Client
	registry *registry.Registry
}

// NewMacieAdapter loads the ambient AWS configuration (region, shared
// credentials, or IRSA, whichever the environment provides) the same way
// internal/connectors/aws.New does.
func NewMacieAdapter(ctx context.Context, region string, reg *registry.Registry) (*MacieAdapter, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for Macie adapter: %w", err)
	}
	return &MacieAdapter{
		cfg:      cfg,
		s3:       s3.NewFromConfig(cfg),
		kms:      kms.NewFromConfig(cfg),
		sts:      sts.NewFromConfig(cfg),
		registry: reg,
	}, nil
}

func (a *MacieAdapter) Kind() Kind { return KindMacie }

// MacieFinding is the subset of a Macie sensitive-data finding this
// adapter understands: a managed data-identifier name and its count,
// plus the bucket-level exposure signals Macie reports alongside it.
type MacieFinding struct {
	Type       string // e.g. "USA_SOCIAL_SECURITY_NUMBER"
	Count      int
	Confidence float64

	BucketPublic    bool
	BucketEncrypted bool
}

// Extract normalizes pre-fetched Macie findings (passed via metadata, as
// a real caller would after paging through GetFindings) into a
// NormalizedInput. source is the bucket ARN; it is carried through only
// for logging/correlation, not parsed here.
func (a *MacieAdapter) Extract(ctx context.Context, source string, metadata map[string]string) (core.NormalizedInput, error) {
	findings := findingsFromMetadata(metadata)

	entities := make([]core.Entity, 0, len(findings))
	exposure := core.ExposurePrivate
	encrypted := true
	for _, f := range findings {
		canonical := a.registry.NormalizeType(f.Type)
		entities = append(entities, core.Entity{
			Type:       canonical,
			Count:      f.Count,
			Confidence: confidenceOrDefault(f.Confidence),
			Source:     string(KindMacie),
		})
		if f.BucketPublic {
			exposure = core.ExposurePublic
		}
		if !f.BucketEncrypted {
			encrypted = false
		}
	}

	enc := core.EncryptionPlatform
	if !encrypted {
		enc = core.EncryptionNone
	}

	normCtx := core.NormalizedContext{
		Exposure:   exposure,
		Encryption: enc,
	}
	a.enrichFromAWS(ctx, bucketNameFromSource(source), metadata, &normCtx)

	return core.NormalizedInput{
		Entities: entities,
		Context:  normCtx,
	}, nil
}

// enrichFromAWS layers live S3/KMS/STS signals on top of whatever the
// caller already decided from metadata. Every call degrades silently on
// error: a Macie finding without live AWS access still scores, just
// without the sharpened exposure/encryption picture.
func (a *MacieAdapter) enrichFromAWS(ctx context.Context, bucket string, metadata map[string]string, normCtx *core.NormalizedContext) {
	if bucket == "" {
		return
	}

	if pab, err := a.s3.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{Bucket: aws.String(bucket)}); err == nil {
		cfg := pab.PublicAccessBlockConfiguration
		if cfg != nil && !aws.ToBool(cfg.BlockPublicAcls) && !aws.ToBool(cfg.BlockPublicPolicy) {
			normCtx.Exposure = core.ExposurePublic
			normCtx.AnonymousAccess = true
		}
	}

	if enc, err := a.s3.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{Bucket: aws.String(bucket)}); err == nil {
		for _, rule := range enc.ServerSideEncryptionConfiguration.Rules {
			if rule.ApplyServerSideEncryptionByDefault == nil {
				continue
			}
			kmsKeyID := aws.ToString(rule.ApplyServerSideEncryptionByDefault.KMSMasterKeyID)
			normCtx.Encryption = a.classifyKey(ctx, kmsKeyID)
		}
	}

	if ver, err := a.s3.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: aws.String(bucket)}); err == nil {
		normCtx.Versioning = ver.Status == "Enabled"
	}

	identity, err := a.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return
	}
	if ownerAcct := metadata["bucket_owner_account"]; ownerAcct != "" && ownerAcct != aws.ToString(identity.Account) {
		normCtx.CrossAccountAccess = true
	}
}

// classifyKey resolves a bucket's default SSE key to customer-managed
// vs. platform-managed via its real KeyManager attribute rather than
// guessing from whether a key ID was present. An unresolvable key
// (cross-account key this adapter's credentials can't describe) is
// treated as customer-managed, the more conservative assumption.
func (a *MacieAdapter) classifyKey(ctx context.Context, kmsKeyID string) core.Encryption {
	if kmsKeyID == "" {
		return core.EncryptionPlatform
	}
	out, err := a.kms.DescribeKey(ctx, &kms.DescribeKeyInput{KeyId: aws.String(kmsKeyID)})
	if err != nil || out.KeyMetadata == nil {
		return core.EncryptionCustomerManaged
	}
	if out.KeyMetadata.KeyManager == kmsTypes.KeyManagerTypeAws {
		return core.EncryptionPlatform
	}
	return core.EncryptionCustomerManaged
}

// bucketNameFromSource accepts either a bare bucket name or an
// "arn:aws:s3:::bucket-name[/key]" ARN, which is the shape Macie finding
// resources use.
func bucketNameFromSource(source string) string {
	const arnPrefix = "arn:aws:s3:::"
	if strings.HasPrefix(source, arnPrefix) {
		source = strings.TrimPrefix(source, arnPrefix)
	}
	if idx := strings.Index(source, "/"); idx >= 0 {
		source = source[:idx]
	}
	return source
}

func confidenceOrDefault(c float64) float64 {
	if c <= 0 {
		return core.ConfidenceMedium
	}
	return c
}

// findingsFromMetadata is a placeholder decode step: in this adapter
// boundary design, the caller has already paged through Macie's
// GetFindings API and serialized the results into metadata before
// calling Extract, since the full Macie API surface is out of scope.
func findingsFromMetadata(metadata map[string]string) []MacieFinding {
	// No findings encoded means an empty, private, encrypted result.
	if metadata == nil {
		return nil
	}
	var findings []MacieFinding
	if t, ok := metadata["finding_type"]; ok {
		findings = append(findings, MacieFinding{
			Type:            t,
			Count:           1,
			BucketPublic:    metadata["bucket_public"] == "true",
			BucketEncrypted: metadata["bucket_encrypted"] != "false",
		})
	}
	return findings
}
