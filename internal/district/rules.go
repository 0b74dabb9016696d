// 包 district：马哈拉施特拉邦县名规范化规则表与模糊对齐
package district

// RulesVersion：规则表版本，规则增删时递增，便于审计与缓存失效
const RulesVersion = "2024.10-1"

// RegionName：目标邦名称（提取结果的 state 字段需与之一致）
const RegionName = "Maharashtra"

// Canonical：规范县名（大写），顺序即模糊匹配时的并列决胜顺序
var Canonical = []string{
	"AHILYANAGAR",
	"AKOLA",
	"AMRAVATI",
	"BEED",
	"BHANDARA",
	"BULDHANA",
	"CHANDRAPUR",
	"CHHATRAPATI SAMBHAJINAGAR",
	"DHARASHIV",
	"DHULE",
	"GADCHIROLI",
	"GONDIA",
	"HINGOLI",
	"JALGAON",
	"JALNA",
	"KOLHAPUR",
	"LATUR",
	"MUMBAI CITY",
	"MUMBAI SUBURBAN",
	"NAGPUR",
	"NANDED",
	"NANDURBAR",
	"NASHIK",
	"PALGHAR",
	"PARBHANI",
	"PUNE",
	"RAIGAD",
	"RATNAGIRI",
	"SANGLI",
	"SATARA",
	"SINDHUDURG",
	"SOLAPUR",
	"THANE",
	"WARDHA",
	"WASHIM",
	"YAVATMAL",
}

// 文档注释：县名更正表（原始大写名 → 规范县名）
// 背景：地理编码服务返回的行政层级不一致，常见旧名、拼写变体、塔卢卡名与城市名；统一映射到法定所属县。
// 约束：值必须出现在 Canonical 中，且值本身不能作为键映射到别处（保证规范化幂等）；由测试校验。
var defaultRules = map[string]string{
	// 官方更名
	"AURANGABAD":               "CHHATRAPATI SAMBHAJINAGAR",
	"SAMBHAJINAGAR":            "CHHATRAPATI SAMBHAJINAGAR",
	"CHATRAPATI SAMBHAJINAGAR": "CHHATRAPATI SAMBHAJINAGAR",
	"OSMANABAD":                "DHARASHIV",
	"AHMEDNAGAR":               "AHILYANAGAR",
	"AHMADNAGAR":               "AHILYANAGAR",
	"AHILYA NAGAR":             "AHILYANAGAR",

	// 拼写变体
	"BID":             "BEED",
	"BULDANA":         "BULDHANA",
	"GONDIYA":         "GONDIA",
	"NASIK":           "NASHIK",
	"RAIGARH":         "RAIGAD",
	"YEOTMAL":         "YAVATMAL",
	"SHOLAPUR":        "SOLAPUR",
	"AMRAOTI":         "AMRAVATI",
	"GARHCHIROLI":     "GADCHIROLI",
	"SINDHUDURGA":     "SINDHUDURG",
	"WASIM":           "WASHIM",
	"MUMBAI SUBURBS":  "MUMBAI SUBURBAN",
	"BOMBAY SUBURBAN": "MUMBAI SUBURBAN",

	// 塔卢卡 / 分区 → 所属县
	"HAVELI":        "PUNE",
	"BARAMATI":      "PUNE",
	"MAVAL":         "PUNE",
	"SHIRUR":        "PUNE",
	"PANDHARPUR":    "SOLAPUR",
	"BARSHI":        "SOLAPUR",
	"KARAD":         "SATARA",
	"SANGAMNER":     "AHILYANAGAR",
	"RAHATA":        "AHILYANAGAR",
	"SHIRDI":        "AHILYANAGAR",
	"AMBAJOGAI":     "BEED",
	"PARLI":         "BEED",
	"UDGIR":         "LATUR",
	"PANVEL":        "RAIGAD",
	"ALIBAG":        "RAIGAD",
	"CHIPLUN":       "RATNAGIRI",
	"KANKAVLI":      "SINDHUDURG",
	"ACHALPUR":      "AMRAVATI",
	"KAMPTEE":       "NAGPUR",
	"HINGANGHAT":    "WARDHA",
	"WANI":          "YAVATMAL",
	"PUSAD":         "YAVATMAL",
	"KHAMGAON":      "BULDHANA",
	"BALLARPUR":     "CHANDRAPUR",
	"SHIRPUR":       "DHULE",
	"BHUSAWAL":      "JALGAON",
	"KOPARGAON":     "AHILYANAGAR",
	"JALGAON JAMOD": "BULDHANA",

	// 城市 → 法定所属县
	"PIMPRI-CHINCHWAD": "PUNE",
	"PIMPRI CHINCHWAD": "PUNE",
	"NAVI MUMBAI":      "THANE",
	"KALYAN-DOMBIVLI":  "THANE",
	"KALYAN":           "THANE",
	"MIRA-BHAYANDAR":   "THANE",
	"BHIWANDI":         "THANE",
	"ULHASNAGAR":       "THANE",
	"VASAI-VIRAR":      "PALGHAR",
	"VASAI":            "PALGHAR",
	"MUMBAI":           "MUMBAI CITY",
	"BOMBAY":           "MUMBAI CITY",
	"GREATER MUMBAI":   "MUMBAI CITY",
	"ICHALKARANJI":     "KOLHAPUR",
	"MALEGAON":         "NASHIK",
}

// Rules：只读县名更正表
type Rules struct {
	m map[string]string
}

var defaultTable = newRules(defaultRules)

// DefaultRules：进程内共享的默认规则表
func DefaultRules() *Rules { return defaultTable }

func newRules(src map[string]string) *Rules {
	m := make(map[string]string, len(src))
	for k, v := range src {
		m[clean(k)] = clean(v)
	}
	return &Rules{m: m}
}

// NewRules：以自定义条目构建规则表（键值会做与查询相同的清洗）
func NewRules(entries map[string]string) *Rules { return newRules(entries) }

// Lookup：查询规范名，未收录时原样返回且 ok=false
func (r *Rules) Lookup(name string) (string, bool) {
	v, ok := r.m[name]
	if !ok {
		return name, false
	}
	return v, true
}

// Len：条目数
func (r *Rules) Len() int { return len(r.m) }

// Entries：规则副本，供审计与命令行输出
func (r *Rules) Entries() map[string]string {
	out := make(map[string]string, len(r.m))
	for k, v := range r.m {
		out[k] = v
	}
	return out
}
