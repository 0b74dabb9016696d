package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"mgnrega-api/internal/geocode"
	"mgnrega-api/internal/logger"
)

// geoResponse：解析结果并附带是否落在目标邦
type geoResponse struct {
	geocode.Result
	InRegion bool `json:"inRegion"`
}

type undeterminedBody struct {
	Error    string            `json:"error"`
	Attempts []geocode.Attempt `json:"attempts"`
}

func parseCoordinate(r *http.Request) (geocode.Coordinate, bool) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(q.Get("lat")), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(q.Get("lon")), 64)
	c := geocode.Coordinate{Lat: lat, Lon: lon}
	if err1 != nil || err2 != nil || !c.Valid() {
		return c, false
	}
	return c, true
}

// 文档注释：坐标反查县名
// 返回：200 结果；400 坐标非法；422 全部服务失败（附各服务尝试记录）；504 整体超时。
func geoResolveHandler(loc geocode.Locator, region string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := parseCoordinate(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_coordinate", "lat must be in [-90,90] and lon in [-180,180]")
			return
		}
		res, err := loc.Resolve(r.Context(), c)
		if err == nil {
			writeJSON(w, http.StatusOK, geoResponse{Result: res, InRegion: res.InRegion(region)})
			return
		}
		if e, ok := geocode.IsExhausted(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, undeterminedBody{Error: "location_undetermined", Attempts: e.Attempts})
			return
		}
		if errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusGatewayTimeout, "resolve_timeout", "")
			return
		}
		if errors.Is(err, context.Canceled) {
			logger.L().Debug("geo_resolve_client_gone")
			return
		}
		logger.L().Error("geo_resolve_error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}
