package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "COSTLENS_"

// AppConfig 应用配置
type AppConfig struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int    `toml:"port"`
	DevMode     bool   `toml:"dev_mode"`
	FrontendURL string `toml:"frontend_url"` // 开发模式下未匹配路由重定向到前端开发服务器
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
}

// DashboardConfig 看板配置
type DashboardConfig struct {
	CurrencyCode string `toml:"currency_code"`
	TopExpenses  int    `toml:"top_expenses"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string // 实际读取的配置文件，未找到时为空
	PortSpecified bool   // 配置文件或环境变量中显式指定了端口
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			FrontendURL: "http://localhost:5173",
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "costlens.db",
		},
		Dashboard: DashboardConfig{
			CurrencyCode: "SAR",
			TopExpenses:  100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return LoadFrom(exeDir)
}

// LoadFrom 从指定目录加载配置
// 优先级：环境变量 > config.toml > 默认值；目录下的 .env 先被加载到环境变量（不覆盖已有值）。
func LoadFrom(dir string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, info, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	configPath := filepath.Join(dir, "config.toml")
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.Path = configPath
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	portFromEnv, err := applyEnv(config)
	if err != nil {
		return nil, info, err
	}
	if portFromEnv {
		info.PortSpecified = true
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// applyEnv 环境变量覆盖（COSTLENS_PORT 等），返回端口是否被覆盖
func applyEnv(config *AppConfig) (bool, error) {
	portSet := false
	if v := env("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return false, fmt.Errorf("invalid %sPORT: %q", EnvPrefix, v)
		}
		config.Server.Port = port
		portSet = true
	}
	if v := env("DEV_MODE"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid %sDEV_MODE: %q", EnvPrefix, v)
		}
		config.Server.DevMode = dev
	}
	if v := env("FRONTEND_URL"); v != "" {
		config.Server.FrontendURL = v
	}
	if v := env("DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := env("DB_FILE"); v != "" {
		config.Data.DBFile = v
	}
	if v := env("CURRENCY"); v != "" {
		config.Dashboard.CurrencyCode = v
	}
	if v := env("TOP_EXPENSES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return false, fmt.Errorf("invalid %sTOP_EXPENSES: %q", EnvPrefix, v)
		}
		config.Dashboard.TopExpenses = n
	}
	if v := env("LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	return portSet, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

// Validate 校验配置取值
func (c *AppConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Dashboard.TopExpenses < 0 {
		return fmt.Errorf("invalid top_expenses: %d", c.Dashboard.TopExpenses)
	}
	if strings.TrimSpace(c.Data.DBFile) == "" {
		return fmt.Errorf("db_file must not be empty")
	}
	return nil
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 dir/config.toml
func SaveConfig(dir string, config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.toml"), data, 0644)
}

// EnsureDataDir 确保数据目录存在，返回其绝对路径
// 相对路径以可执行文件所在目录为基准。
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	// 创建子目录
	for _, subdir := range []string{"uploads", "exports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", fmt.Errorf("failed to create %s directory: %w", subdir, err)
		}
	}

	return dataDir, nil
}

// DBPath 数据库文件路径
func DBPath(dataDir string, config *AppConfig) string {
	if filepath.IsAbs(config.Data.DBFile) {
		return config.Data.DBFile
	}
	return filepath.Join(dataDir, config.Data.DBFile)
}
