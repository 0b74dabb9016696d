package geocode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"mgnrega-api/internal/config"
)

// LocationIQDistrictFields / NominatimDistrictFields：OSM 系服务的县字段优先级
// 约束：county 在部分地区返回的是塔卢卡名，依赖县名规则表纠正到所属县
var (
	LocationIQDistrictFields = FieldPriority{
		{Key: "state_district"},
		{Key: "city", RequireRegion: true},
		{Key: "county"},
		{Key: "district"},
		{Key: "city_district"},
	}
	NominatimDistrictFields = FieldPriority{
		{Key: "state_district"},
		{Key: "county"},
		{Key: "city", RequireRegion: true},
		{Key: "city_district"},
	}
)

type osmResponse struct {
	Error       string            `json:"error"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	Importance  json.RawMessage   `json:"importance"`
	PlaceRank   json.RawMessage   `json:"place_rank"`
}

// osmExtractor：Nominatim 形态响应（LocationIQ 与 Nominatim 共用）
type osmExtractor struct {
	priority    FieldPriority
	accuracyKey string
}

func (e osmExtractor) Extract(body []byte, region string) (Fields, error) {
	var r osmResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return Fields{}, fmt.Errorf("decode osm response: %w", err)
	}
	if r.Error != "" || len(r.Address) == 0 {
		return Fields{}, nil
	}
	a := r.Address
	state := strings.TrimSpace(a["state"])
	acc := r.Importance
	if e.accuracyKey == "place_rank" {
		acc = r.PlaceRank
	}
	return Fields{
		State:            state,
		District:         e.priority.pick(a, strings.EqualFold(state, region)),
		City:             firstNonEmpty(a["city"], a["town"], a["village"], a["municipality"]),
		Country:          strings.TrimSpace(a["country"]),
		FormattedAddress: r.DisplayName,
		Accuracy:         strings.Trim(string(acc), `" `),
	}, nil
}

func osmQuery(c Coordinate, key string) url.Values {
	q := url.Values{}
	if key != "" {
		q.Set("key", key)
	}
	q.Set("lat", c.latText())
	q.Set("lon", c.lonText())
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("accept-language", "en")
	return q
}

// NewLocationIQ：基于 OSM 的区域化服务，需要 key
func NewLocationIQ(cfg config.Provider, region string, client *http.Client) Provider {
	return &httpProvider{
		name:     cfg.Name,
		endpoint: cfg.Endpoint,
		cred:     cfg.Credential,
		disabled: cfg.Disabled,
		timeout:  cfg.Timeout,
		region:   region,
		client:   client,
		build:    osmQuery,
		extract:  osmExtractor{priority: ParseFieldPriority(cfg.DistrictFields, LocationIQDistrictFields), accuracyKey: "importance"},
	}
}

// NewNominatim：OSM 官方实例，无需 key，但必须带 User-Agent
func NewNominatim(cfg config.Provider, region string, client *http.Client) Provider {
	return &httpProvider{
		name:      cfg.Name,
		endpoint:  cfg.Endpoint,
		cred:      cfg.Credential,
		keyless:   true,
		disabled:  cfg.Disabled,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		region:    region,
		client:    client,
		build: func(c Coordinate, _ string) url.Values {
			q := osmQuery(c, "")
			q.Set("zoom", "10")
			return q
		},
		extract: osmExtractor{priority: ParseFieldPriority(cfg.DistrictFields, NominatimDistrictFields), accuracyKey: "place_rank"},
	}
}
