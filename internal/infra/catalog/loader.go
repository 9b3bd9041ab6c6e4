package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	domainsite "campsite/internal/domain/site"
)

type siteDocument struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	BasePrice    int64    `json:"basePrice"`
	MaxOccupancy int      `json:"maxOccupancy"`
	Features     []string `json:"features"`
}

// LoadSites reads the site catalogue fixture. Sites are immutable reference
// data; the engine loads them once at startup.
func LoadSites(path string) ([]*domainsite.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var docs []siteDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	seen := make(map[string]struct{}, len(docs))
	sites := make([]*domainsite.Site, 0, len(docs))
	for _, doc := range docs {
		id := strings.TrimSpace(doc.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: site with empty id in %s", path)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate site id %q in %s", id, path)
		}
		seen[id] = struct{}{}
		sites = append(sites, &domainsite.Site{
			ID:           domainsite.SiteID(id),
			Name:         doc.Name,
			Type:         doc.Type,
			BasePrice:    doc.BasePrice,
			MaxOccupancy: doc.MaxOccupancy,
			Features:     doc.Features,
		})
	}
	if len(sites) == 0 {
		return nil, fmt.Errorf("catalog: no sites in %s", path)
	}
	return sites, nil
}
