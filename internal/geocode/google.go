package geocode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"mgnrega-api/internal/config"
)

// GoogleDistrictFields：Google 地址组件的县字段优先级
// 背景：印度数据中 administrative_area_level_3 通常是县，level_2 常为“专区(division)”，故放在城市之后。
var GoogleDistrictFields = FieldPriority{
	{Key: "administrative_area_level_3"},
	{Key: "locality", RequireRegion: true},
	{Key: "administrative_area_level_2"},
	{Key: "sublocality"},
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress  string `json:"formatted_address"`
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
		Geometry struct {
			LocationType string `json:"location_type"`
		} `json:"geometry"`
	} `json:"results"`
}

// googleExtractor：Google Geocoding 响应提取
type googleExtractor struct {
	priority FieldPriority
}

func (e googleExtractor) Extract(body []byte, region string) (Fields, error) {
	var r googleResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return Fields{}, fmt.Errorf("decode google response: %w", err)
	}
	switch r.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Fields{}, nil
	default:
		return Fields{}, fmt.Errorf("%w: status %s %s", ErrProviderHTTP, r.Status, r.ErrorMessage)
	}
	if len(r.Results) == 0 {
		return Fields{}, nil
	}
	// 组件类型 → 名称；多个结果按顺序合并，先出现者优先
	m := map[string]string{}
	for _, res := range r.Results {
		for _, comp := range res.AddressComponents {
			for _, t := range comp.Types {
				if _, ok := m[t]; !ok && comp.LongName != "" {
					m[t] = comp.LongName
				}
			}
		}
	}
	state := m["administrative_area_level_1"]
	return Fields{
		State:            state,
		District:         e.priority.pick(m, strings.EqualFold(state, region)),
		City:             firstNonEmpty(m["locality"], m["sublocality"]),
		Country:          m["country"],
		FormattedAddress: r.Results[0].FormattedAddress,
		Accuracy:         r.Results[0].Geometry.LocationType,
	}, nil
}

// NewGoogle：全球高精度服务，优先级最高
func NewGoogle(cfg config.Provider, region string, client *http.Client) Provider {
	return &httpProvider{
		name:     cfg.Name,
		endpoint: cfg.Endpoint,
		cred:     cfg.Credential,
		disabled: cfg.Disabled,
		timeout:  cfg.Timeout,
		region:   region,
		client:   client,
		build: func(c Coordinate, key string) url.Values {
			q := url.Values{}
			q.Set("latlng", c.latText()+","+c.lonText())
			q.Set("key", key)
			q.Set("language", "en")
			return q
		},
		extract: googleExtractor{priority: ParseFieldPriority(cfg.DistrictFields, GoogleDistrictFields)},
	}
}
