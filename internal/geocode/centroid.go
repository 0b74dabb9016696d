package geocode

import (
	"context"
	"fmt"
	"math"

	"mgnrega-api/internal/district"

	"github.com/dhconnelly/rtreego"
	"github.com/umahmood/haversine"
)

// 县治所坐标（近似值），用于离线最近邻兜底
var districtSeats = []struct {
	Name     string
	Lat, Lon float64
}{
	{"AHILYANAGAR", 19.0948, 74.7480},
	{"AKOLA", 20.7002, 77.0082},
	{"AMRAVATI", 20.9374, 77.7796},
	{"BEED", 18.9891, 75.7601},
	{"BHANDARA", 21.1669, 79.6500},
	{"BULDHANA", 20.5293, 76.1842},
	{"CHANDRAPUR", 19.9615, 79.2961},
	{"CHHATRAPATI SAMBHAJINAGAR", 19.8762, 75.3433},
	{"DHARASHIV", 18.1860, 76.0419},
	{"DHULE", 20.9042, 74.7749},
	{"GADCHIROLI", 20.1809, 80.0036},
	{"GONDIA", 21.4624, 80.1961},
	{"HINGOLI", 19.7173, 77.1494},
	{"JALGAON", 21.0077, 75.5626},
	{"JALNA", 19.8347, 75.8816},
	{"KOLHAPUR", 16.7050, 74.2433},
	{"LATUR", 18.4088, 76.5604},
	{"MUMBAI CITY", 18.9388, 72.8354},
	{"MUMBAI SUBURBAN", 19.1136, 72.8697},
	{"NAGPUR", 21.1458, 79.0882},
	{"NANDED", 19.1383, 77.3210},
	{"NANDURBAR", 21.3700, 74.2400},
	{"NASHIK", 19.9975, 73.7898},
	{"PALGHAR", 19.6967, 72.7699},
	{"PARBHANI", 19.2608, 76.7748},
	{"PUNE", 18.5204, 73.8567},
	{"RAIGAD", 18.6414, 72.8722},
	{"RATNAGIRI", 16.9902, 73.3120},
	{"SANGLI", 16.8524, 74.5815},
	{"SATARA", 17.6805, 74.0183},
	{"SINDHUDURG", 16.1100, 73.6900},
	{"SOLAPUR", 17.6599, 75.9064},
	{"THANE", 19.2183, 72.9781},
	{"WARDHA", 20.7453, 78.6022},
	{"WASHIM", 20.1110, 77.1330},
	{"YAVATMAL", 20.3888, 78.1204},
}

// 马邦外接矩形（度），先于边界多边形做快速过滤
const (
	mhMinLat, mhMaxLat = 15.6, 22.1
	mhMinLon, mhMaxLon = 72.6, 80.9
)

type latLon struct{ Lat, Lon float64 }

// 马邦粗略边界（顺时针，自西北海岸起），精度约 10km；西侧向海外放宽。
// 尼帕尼（卡纳塔克）在科尔哈布尔境内形成凹口，单独描出。
var mhBoundary = []latLon{
	{20.12, 72.60}, {20.12, 72.90}, {20.05, 73.10}, {20.35, 73.45}, {20.75, 73.65},
	{21.20, 73.75}, {21.80, 74.05}, {21.60, 74.50}, {21.40, 75.05}, {21.40, 75.80},
	{21.22, 76.15}, {21.25, 76.40}, {21.60, 76.75}, {21.75, 77.20}, {21.55, 77.90},
	{21.50, 78.40}, {21.65, 78.90}, {21.70, 79.40}, {21.65, 79.90}, {21.65, 80.30},
	{21.35, 80.65}, {20.95, 80.65}, {20.50, 80.55}, {19.90, 80.55}, {19.30, 80.90},
	{18.90, 80.30}, {18.70, 80.00}, {19.20, 79.90}, {19.50, 79.75}, {19.55, 79.20},
	{19.70, 78.90}, {19.85, 78.60}, {19.70, 78.40}, {19.25, 78.30}, {19.00, 78.05},
	{18.75, 77.90}, {18.45, 77.65}, {18.10, 77.30}, {17.95, 76.95}, {17.75, 76.60},
	{17.35, 76.35}, {17.20, 75.85}, {17.00, 75.55}, {16.90, 75.25}, {16.75, 74.95},
	{16.60, 74.60}, {16.52, 74.40}, {16.47, 74.32}, {16.32, 74.32}, {16.28, 74.45},
	{16.10, 74.50}, {15.90, 74.35}, {15.65, 74.10}, {15.60, 73.95}, {15.75, 73.75},
	{15.75, 73.50}, {16.50, 73.10}, {18.00, 72.60},
}

// insideBoundary：包围盒过滤后按射线法（Even-Odd）判定是否落在马邦边界内
func insideBoundary(c Coordinate) bool {
	if c.Lat < mhMinLat || c.Lat > mhMaxLat || c.Lon < mhMinLon || c.Lon > mhMaxLon {
		return false
	}
	inside := false
	for i, j := 0, len(mhBoundary)-1; i < len(mhBoundary); j, i = i, i+1 {
		a, b := mhBoundary[i], mhBoundary[j]
		if (a.Lat > c.Lat) != (b.Lat > c.Lat) &&
			c.Lon < (b.Lon-a.Lon)*(c.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lon {
			inside = !inside
		}
	}
	return inside
}

type seatItem struct {
	rect     rtreego.Rect
	name     string
	lat, lon float64
}

func (s *seatItem) Bounds() rtreego.Rect { return s.rect }

// 文档注释：离线县治所最近邻服务
// 背景：在线服务全部失败时仍能给出近似县名；仅在马邦边界内、且距最近县治所不超过 maxKm 时作答。
// 边界外（含外接矩形内的邻邦）返回空 Fields，由解析链记为数据不足。
// 约束：R-Tree 以经纬度做平面近邻取候选，再用球面距离重排；精度信号为 approx:<km>。
type CentroidProvider struct {
	tree  *rtreego.Rtree
	maxKm float64
}

// NewCentroid：maxKm<=0 时取 60km
func NewCentroid(maxKm float64) *CentroidProvider {
	if maxKm <= 0 {
		maxKm = 60
	}
	tree := rtreego.NewTree(2, 2, 8)
	for _, s := range districtSeats {
		rect, _ := rtreego.NewRect(rtreego.Point{s.Lon, s.Lat}, []float64{0.01, 0.01})
		tree.Insert(&seatItem{rect: rect, name: s.Name, lat: s.Lat, lon: s.Lon})
	}
	return &CentroidProvider{tree: tree, maxKm: maxKm}
}

func (p *CentroidProvider) Name() string     { return "centroid" }
func (p *CentroidProvider) Configured() bool { return p.tree != nil }

func (p *CentroidProvider) Reverse(ctx context.Context, c Coordinate) (Fields, error) {
	if err := ctx.Err(); err != nil {
		return Fields{}, err
	}
	if !insideBoundary(c) {
		return Fields{}, nil
	}
	name, km := p.nearest(c)
	if name == "" || km > p.maxKm {
		return Fields{}, nil
	}
	return Fields{
		State:            district.RegionName,
		District:         name,
		Country:          "India",
		FormattedAddress: fmt.Sprintf("near %s, %s, India", name, district.RegionName),
		Accuracy:         fmt.Sprintf("approx:%.1fkm", km),
	}, nil
}

func (p *CentroidProvider) nearest(c Coordinate) (string, float64) {
	best, bestKm := "", math.MaxFloat64
	for _, sp := range p.tree.NearestNeighbors(3, rtreego.Point{c.Lon, c.Lat}) {
		s, ok := sp.(*seatItem)
		if !ok {
			continue
		}
		_, km := haversine.Distance(haversine.Coord{Lat: c.Lat, Lon: c.Lon}, haversine.Coord{Lat: s.lat, Lon: s.lon})
		if km < bestKm {
			best, bestKm = s.name, km
		}
	}
	return best, bestKm
}
