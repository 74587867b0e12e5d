package models

// ProviderKeyBlackBerry is the provider_key under which BlackBerry Radar
// configuration is stored.
const ProviderKeyBlackBerry = "blackberry"

// ProviderOptions is the structured configuration stored per organization for the
// BlackBerry integration. It is written as a whole, never merged.
type ProviderOptions struct {
	APIBase      string   `json:"api_base" yaml:"api_base"`
	ClientID     string   `json:"client_id" yaml:"client_id"`
	ClientSecret string   `json:"client_secret" yaml:"client_secret"`
	AccountIDs   []string `json:"account_ids" yaml:"account_ids"`
	SinceDays    int      `json:"since_days" yaml:"since_days"`
}

// Complete reports whether every value the ingestion job needs is present.
func (o ProviderOptions) Complete() bool {
	return o.APIBase != "" && o.ClientID != "" && o.ClientSecret != "" && len(o.AccountIDs) > 0
}

// ProviderConfig binds provider options to an organization.
type ProviderConfig struct {
	OrgID       OrgID           `json:"org_id"`
	ProviderKey string          `json:"provider_key"`
	Options     ProviderOptions `json:"options"`
}

// UpsertConfigArgs is the argument object of the upsert_blackberry_config procedure.
type UpsertConfigArgs struct {
	OrgID   OrgID           `json:"p_org_id"`
	Options ProviderOptions `json:"p_options"`
}
