// 包 config：一次性读取环境变量为类型化配置；服务与命令行工具共用
package config

import (
	"math"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config：进程配置
type Config struct {
	Addr        string
	APIBase     string
	Region      string
	Postgres    Postgres
	Redis       Redis
	Geo         Geo
	Leaderboard Leaderboard
	RateLimit   RateLimit
}

// Postgres：绩效数据库连接参数
type Postgres struct {
	Host         string
	Port         string
	User         string
	Password     string
	DB           string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN：拼接 lib/pq 可识别的连接串；用户名与密码按 URL userinfo 规则转义
func (p Postgres) DSN() string {
	user := url.User(p.User)
	if p.Password != "" {
		user = url.UserPassword(p.User, p.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.DB,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

// Redis：反地理结果缓存；Enabled=false 时不建立连接
type Redis struct {
	Enabled bool
	Addr    string
	Pass    string
	DB      int
}

// Provider：单个反地理服务的配置
type Provider struct {
	Name           string
	Endpoint       string
	Credential     Credential
	Keyless        bool
	Disabled       bool
	Timeout        time.Duration
	DistrictFields string
	UserAgent      string
}

// Geo：反地理解析链配置，Providers 顺序即优先级
type Geo struct {
	Providers       []Provider
	CacheTTL        time.Duration
	CentroidEnabled bool
	CentroidMaxKm   float64
}

// Leaderboard：排行榜构建与缓存
type Leaderboard struct {
	CacheTTL       time.Duration
	DefaultFinYear string
}

// RateLimit：/geo 入口的每秒令牌桶
type RateLimit struct {
	Enabled bool
	QPS     int
}

// 文档注释：读取进程配置
// 背景：凭据在此处完成“是否可用”判定（空值与占位符统一视为未配置），请求路径只检查 Credential.Present。
// 约束：解析失败的数值项静默回退默认值；不做网络探测。
func Load() Config {
	var c Config
	c.Addr = getEnv("ADDR", ":8080")
	c.APIBase = getEnv("API_BASE", "/api")
	c.Region = getEnv("GEO_REGION", "Maharashtra")

	c.Postgres = Postgres{
		Host:         getEnv("PG_HOST", "localhost"),
		Port:         getEnv("PG_PORT", "5432"),
		User:         getEnv("PG_USER", "postgres"),
		Password:     os.Getenv("PG_PASSWORD"),
		DB:           getEnv("PG_DB", "mgnrega"),
		SSLMode:      getEnv("PG_SSLMODE", "disable"),
		MaxOpenConns: getInt("PG_MAX_OPEN_CONNS", 20),
		MaxIdleConns: getInt("PG_MAX_IDLE_CONNS", 10),
	}

	c.Redis = Redis{
		Enabled: getBool("REDIS_ENABLED", true),
		Addr:    getEnv("REDIS_HOST", "127.0.0.1") + ":" + getEnv("REDIS_PORT", "6379"),
		Pass:    os.Getenv("REDIS_PASS"),
		DB:      getInt("REDIS_DB", 0),
	}

	c.Geo = Geo{
		Providers: []Provider{
			{
				Name:           "google",
				Endpoint:       getEnv("GOOGLE_GEOCODE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
				Credential:     ParseCredential(os.Getenv("GOOGLE_MAPS_API_KEY")),
				Disabled:       !getBool("GEO_GOOGLE_ENABLED", true),
				Timeout:        getSeconds("GEO_GOOGLE_TIMEOUT_S", 5),
				DistrictFields: os.Getenv("GEO_GOOGLE_DISTRICT_FIELDS"),
			},
			{
				Name:           "locationiq",
				Endpoint:       getEnv("LOCATIONIQ_URL", "https://us1.locationiq.com/v1/reverse"),
				Credential:     ParseCredential(os.Getenv("LOCATIONIQ_API_KEY")),
				Disabled:       !getBool("GEO_LOCATIONIQ_ENABLED", true),
				Timeout:        getSeconds("GEO_LOCATIONIQ_TIMEOUT_S", 10),
				DistrictFields: os.Getenv("GEO_LOCATIONIQ_DISTRICT_FIELDS"),
			},
			{
				Name:           "opencage",
				Endpoint:       getEnv("OPENCAGE_URL", "https://api.opencagedata.com/geocode/v1/json"),
				Credential:     ParseCredential(os.Getenv("OPENCAGE_API_KEY")),
				Disabled:       !getBool("GEO_OPENCAGE_ENABLED", true),
				Timeout:        getSeconds("GEO_OPENCAGE_TIMEOUT_S", 10),
				DistrictFields: os.Getenv("GEO_OPENCAGE_DISTRICT_FIELDS"),
			},
			{
				Name:           "nominatim",
				Endpoint:       getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/reverse"),
				Keyless:        true,
				Disabled:       !getBool("GEO_NOMINATIM_ENABLED", true),
				Timeout:        getSeconds("GEO_NOMINATIM_TIMEOUT_S", 15),
				DistrictFields: os.Getenv("GEO_NOMINATIM_DISTRICT_FIELDS"),
				UserAgent:      getEnv("NOMINATIM_USER_AGENT", "mgnrega-api/1.0"),
			},
		},
		CacheTTL:        getSeconds("GEO_CACHE_TTL_S", 3600),
		CentroidEnabled: getBool("GEO_CENTROID_FALLBACK", false),
		CentroidMaxKm:   getFloat("GEO_CENTROID_MAX_KM", 60),
	}

	c.Leaderboard = Leaderboard{
		CacheTTL:       getSeconds("LEADERBOARD_CACHE_TTL_S", 600),
		DefaultFinYear: os.Getenv("LEADERBOARD_FIN_YEAR"),
	}

	c.RateLimit = RateLimit{
		Enabled: getBool("RATE_LIMIT_ENABLED", false),
		QPS:     getInt("RATE_LIMIT_QPS", 20),
	}
	return c
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0 {
			return f
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getSeconds(key string, def int) time.Duration {
	return time.Duration(getInt(key, def)) * time.Second
}
