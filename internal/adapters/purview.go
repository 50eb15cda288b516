package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

// PurviewAdapter normalizes Microsoft Purview sensitivity-label scan
// results. Purview's scan API itself stays out of scope (§1) and labels
// arrive pre-serialized via metadata, but the exposure and
// cross-tenant-access signals are resolved against the real storage
// account and its role assignments.
type PurviewAdapter struct {
	credential *azidentity.DefaultAzureCredential
	registry   *registry.Registry
}

// NewPurviewAdapter builds a DefaultAzureCredential the same way
// internal/connectors/azure constructs its ClientSecretCredential,
// except falling back through the full default chain (env, managed
// identity, CLI) rather than requiring an explicit client secret.
func NewPurviewAdapter(reg *registry.Registry) (*PurviewAdapter, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("constructing Azure credential for Purview adapter: %w", err)
	}
	return &PurviewAdapter{credential: cred, registry: reg}, nil
}

func (a *PurviewAdapter) Kind() Kind { return KindPurview }

// PurviewLabel is one sensitivity label Purview attached to an asset.
type PurviewLabel struct {
	EntityType        string
	Count             int
	Confidence        float64
	HasClassification bool
}

func (a *PurviewAdapter) Extract(ctx context.Context, source string, metadata map[string]string) (core.NormalizedInput, error) {
	normCtx := core.NormalizedContext{Exposure: core.ExposureInternal, HasClassification: true}
	a.enrichFromAzure(ctx, source, &normCtx)

	label, ok := metadata["purview_label_type"]
	if !ok {
		return core.NormalizedInput{Context: normCtx}, nil
	}

	return core.NormalizedInput{
		Entities: []core.Entity{{
			Type:       a.registry.NormalizeType(label),
			Count:      1,
			Confidence: core.ConfidenceHigh,
			Source:     string(KindPurview),
		}},
		Context: normCtx,
	}, nil
}

// enrichFromAzure reads the storage account's real network/public-access
// properties and scans its role assignments for guest (cross-tenant)
// principals. Every call degrades silently: a Purview label without live
// ARM access still scores, just at the metadata-only exposure default.
func (a *PurviewAdapter) enrichFromAzure(ctx context.Context, resourceID string, normCtx *core.NormalizedContext) {
	subscriptionID, resourceGroup, accountName, ok := parseStorageAccountID(resourceID)
	if !ok {
		return
	}

	if accounts, err := armstorage.NewAccountsClient(subscriptionID, a.credential, nil); err == nil {
		if resp, err := accounts.GetProperties(ctx, resourceGroup, accountName, nil); err == nil && resp.Properties != nil {
			if resp.Properties.AllowBlobPublicAccess != nil && *resp.Properties.AllowBlobPublicAccess {
				normCtx.Exposure = core.ExposurePublic
				normCtx.AnonymousAccess = true
			}
		}
	}

	roles, err := armauthorization.NewRoleAssignmentsClient(subscriptionID, a.credential, nil)
	if err != nil {
		return
	}
	scope := resourceID
	pager := roles.NewListForScopePager(scope, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return
		}
		for _, assignment := range page.Value {
			if assignment.Properties == nil || assignment.Properties.PrincipalType == nil {
				continue
			}
			if *assignment.Properties.PrincipalType == armauthorization.PrincipalTypeForeignGroup {
				normCtx.CrossAccountAccess = true
			}
		}
	}
}

// parseStorageAccountID extracts the subscription ID, resource group,
// and storage account name from a standard ARM resource ID:
// /subscriptions/{sub}/resourceGroups/{rg}/providers/Microsoft.Storage/storageAccounts/{name}
func parseStorageAccountID(resourceID string) (subscriptionID, resourceGroup, accountName string, ok bool) {
	parts := strings.Split(strings.Trim(resourceID, "/"), "/")
	for i := 0; i < len(parts)-1; i++ {
		switch strings.ToLower(parts[i]) {
		case "subscriptions":
			subscriptionID = parts[i+1]
		case "resourcegroups":
			resourceGroup = parts[i+1]
		case "storageaccounts":
			accountName = parts[i+1]
		}
	}
	return subscriptionID, resourceGroup, accountName, subscriptionID != "" && resourceGroup != "" && accountName != ""
}
