// 包 geocode：按优先级依次调用多个反地理服务，将坐标解析为邦/县/城市并做马邦县名规范化
package geocode

import (
	"fmt"
	"strconv"
)

// Coordinate：WGS84 坐标
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid：纬度 [-90,90]、经度 [-180,180]；由调用方在 Resolve 之前检查
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func (c Coordinate) String() string { return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon) }

func (c Coordinate) latText() string { return strconv.FormatFloat(c.Lat, 'f', 6, 64) }
func (c Coordinate) lonText() string { return strconv.FormatFloat(c.Lon, 'f', 6, 64) }

// Fields：单个服务响应中提取出的行政字段，空串表示缺失
type Fields struct {
	State            string
	District         string
	City             string
	Country          string
	FormattedAddress string
	Accuracy         string
}

// Result：一次成功解析的结果，构造后不再修改
// 约束：Accuracy 为服务自带的精度/置信度信号原文（如 ROOFTOP、0.61、9、approx:12.4km）
type Result struct {
	State            string     `json:"state"`
	District         string     `json:"district"`
	City             string     `json:"city,omitempty"`
	Country          string     `json:"country"`
	FormattedAddress string     `json:"formattedAddress"`
	Coordinates      Coordinate `json:"coordinates"`
	Accuracy         string     `json:"accuracy"`
	Provider         string     `json:"provider"`
}

// InRegion：state 与目标邦名精确一致（区分大小写）
func (r Result) InRegion(region string) bool { return r.State == region }
