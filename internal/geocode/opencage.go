package geocode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mgnrega-api/internal/config"
)

// OpenCageDistrictFields：OpenCage components 的县字段优先级
var OpenCageDistrictFields = FieldPriority{
	{Key: "state_district"},
	{Key: "county"},
	{Key: "city", RequireRegion: true},
	{Key: "district"},
}

type opencageResponse struct {
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	Results []struct {
		Formatted  string         `json:"formatted"`
		Confidence int            `json:"confidence"`
		Components map[string]any `json:"components"`
	} `json:"results"`
}

type opencageExtractor struct {
	priority FieldPriority
}

func (e opencageExtractor) Extract(body []byte, region string) (Fields, error) {
	var r opencageResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return Fields{}, fmt.Errorf("decode opencage response: %w", err)
	}
	if r.Status.Code != 0 && r.Status.Code != 200 {
		return Fields{}, fmt.Errorf("%w: status %d %s", ErrProviderHTTP, r.Status.Code, r.Status.Message)
	}
	if len(r.Results) == 0 {
		return Fields{}, nil
	}
	top := r.Results[0]
	// components 中混有数组等非文本值，仅保留字符串
	m := make(map[string]string, len(top.Components))
	for k, v := range top.Components {
		if s, ok := v.(string); ok {
			m[k] = s
		}
	}
	state := strings.TrimSpace(m["state"])
	return Fields{
		State:            state,
		District:         e.priority.pick(m, strings.EqualFold(state, region)),
		City:             firstNonEmpty(m["city"], m["town"], m["village"]),
		Country:          strings.TrimSpace(m["country"]),
		FormattedAddress: top.Formatted,
		Accuracy:         strconv.Itoa(top.Confidence),
	}, nil
}

// NewOpenCage：聚合型服务，q 参数为 "lat,lon"
func NewOpenCage(cfg config.Provider, region string, client *http.Client) Provider {
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
			q.Set("q", c.latText()+","+c.lonText())
			q.Set("key", key)
			q.Set("language", "en")
			q.Set("no_annotations", "1")
			return q
		},
		extract: opencageExtractor{priority: ParseFieldPriority(cfg.DistrictFields, OpenCageDistrictFields)},
	}
}
