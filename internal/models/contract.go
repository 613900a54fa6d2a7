package models

// Contract is the durable record for one (address, network) pair. The pair
// is unique; submissions upsert rather than duplicate. Risk fields mirror
// the most recent completed scan.
type Contract struct {
	ID           string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Address      string            `gorm:"type:varchar(42);uniqueIndex:idx_contracts_address_network" json:"address"`
	Network      string            `gorm:"type:varchar(32);uniqueIndex:idx_contracts_address_network" json:"network"`
	Labels       []string          `gorm:"serializer:json" json:"labels,omitempty"`
	Metadata     map[string]string `gorm:"serializer:json" json:"metadata,omitempty"`
	LatestScanID string            `gorm:"type:varchar(36)" json:"latest_scan_id,omitempty"`
	RiskScore    int               `json:"risk_score"`
	RiskLevel    string            `json:"risk_level,omitempty"`
	CreatedAt    int64             `json:"created_at"`
	UpdatedAt    int64             `json:"updated_at"`
}

// MergeLabels adds labels not already present, preserving existing order.
func (c *Contract) MergeLabels(labels []string) {
	existing := make(map[string]struct{}, len(c.Labels))
	for _, l := range c.Labels {
		existing[l] = struct{}{}
	}
	for _, l := range labels {
		if _, ok := existing[l]; !ok {
			c.Labels = append(c.Labels, l)
			existing[l] = struct{}{}
		}
	}
}

// MergeMetadata overlays supplied keys without clobbering unrelated ones.
func (c *Contract) MergeMetadata(metadata map[string]string) {
	if len(metadata) == 0 {
		return
	}
	if c.Metadata == nil {
		c.Metadata = make(map[string]string, len(metadata))
	}
	for k, v := range metadata {
		c.Metadata[k] = v
	}
}
