package app

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/pkg/config"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，如 XDOORIA_WEB_PORT 对应 web.port
const EnvPrefix = "XDOORIA"

var (
	configPath string
	logPath    string
)

// LoadConfig 加载服务配置
// 优先级：命令行参数 > 环境变量 > 配置文件 > 默认值
func LoadConfig(target any, opts ...config.Option) error {
	return LoadConfigFrom(pflag.CommandLine, os.Args[1:], target, opts...)
}

// LoadConfigFrom 使用指定 FlagSet 与参数加载配置
func LoadConfigFrom(fs *pflag.FlagSet, args []string, target any, opts ...config.Option) error {
	execDir, err := GetExecDir()
	if err != nil {
		return errors.Wrap(err, "failed to get executable directory")
	}
	defaultConfig := filepath.Join(execDir, "config.yaml")
	defaultLog := filepath.Join(execDir, "logs", "economy.log")

	if fs.Lookup("config") == nil {
		fs.StringVarP(&configPath, "config", "c", defaultConfig, "path to config file")
	}
	if fs.Lookup("log.path") == nil {
		fs.StringVar(&logPath, "log.path", defaultLog, "output path for logs")
	}
	if !fs.Parsed() {
		if err := fs.Parse(args); err != nil {
			return errors.Wrap(err, "failed to parse flags")
		}
	}

	path := configPath
	if !fs.Changed("config") {
		if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
			path = env
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.Wrapf(config.ErrConfigFileNotFound, "path %s", path)
	}
	configPath = path

	v := viper.New()
	v.SetDefault("log.output_path", defaultLog)
	if fs.Changed("log.path") {
		v.Set("log.output_path", logPath)
		v.Set("log.enable_file", true)
	}

	mgr := config.NewManager(append(opts, config.WithViper(v))...)
	mgr.BindEnv(EnvPrefix)
	if err := mgr.LoadFile(configPath); err != nil {
		return err
	}
	if err := mgr.Unmarshal(target); err != nil {
		return err
	}

	logPath = v.GetString("log.output_path")
	if dir := filepath.Dir(logPath); dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	return nil
}

// GetExecDir 获取可执行文件所在目录（处理符号链接）
func GetExecDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	realPath, err := filepath.EvalSymlinks(execPath)
	if err != nil {
		return filepath.Dir(execPath), nil
	}
	return filepath.Dir(realPath), nil
}

// GetConfigPath 返回最终使用的配置文件路径
func GetConfigPath() string {
	return configPath
}
