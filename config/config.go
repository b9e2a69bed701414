package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo config

// Init loads config.yml into ConfigInfo. VIDTUBE_* environment variables
// override file values (VIDTUBE_MYSQL_ADDR overrides mysql.addr).
func Init() {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	viper.SetConfigType("yaml")
	viper.SetConfigName("config.yml")
	viper.SetEnvPrefix("vidtube")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	configPaths := []string{
		"../../config",
		"./config",
		"../config",
		".",
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Debugf("Added config path: %s (absolute: %s)", path, absPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Warnf("config file not found, using defaults: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
			return
		}
	} else {
		logrus.Infof("Successfully read config file: %s", viper.ConfigFileUsed())
	}

	load()

	logrus.Infof("Config loaded - MySQL: %s:%s@%s/%s",
		ConfigInfo.Mysql.Username, "***", ConfigInfo.Mysql.Addr, ConfigInfo.Mysql.Database)
	if ConfigInfo.Jwt.Secret == "" {
		logrus.Warn("No jwt secret configured!")
	}
}

func setDefaults() {
	viper.SetDefault("server.addr", "0.0.0.0:8888")
	viper.SetDefault("server.max_body_size", 512*1024*1024)
	viper.SetDefault("mysql.charset", "utf8mb4")
	viper.SetDefault("jwt.timeout", "24h")
	viper.SetDefault("sentinel.write_qps", 200)
	viper.SetDefault("snowflake.worker_id", 1)
	viper.SetDefault("snowflake.datacenter_id", 1)
}

// 手动从viper获取配置值，避免Unmarshal对嵌套tag的问题
func load() {
	ConfigInfo.Server.Addr = viper.GetString("server.addr")
	ConfigInfo.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	ConfigInfo.Server.MaxBodySize = viper.GetInt("server.max_body_size")
	ConfigInfo.Server.PprofAddr = viper.GetString("server.pprof_addr")

	ConfigInfo.Mysql.Addr = viper.GetString("mysql.addr")
	ConfigInfo.Mysql.Database = viper.GetString("mysql.database")
	ConfigInfo.Mysql.Username = viper.GetString("mysql.username")
	ConfigInfo.Mysql.Password = viper.GetString("mysql.password")
	ConfigInfo.Mysql.Charset = viper.GetString("mysql.charset")

	ConfigInfo.Redis.Addr = viper.GetString("redis.addr")
	ConfigInfo.Redis.Password = viper.GetString("redis.password")
	ConfigInfo.Redis.DB = viper.GetInt("redis.db")

	ConfigInfo.RabbitMq.Addr = viper.GetString("rabbitmq.addr")
	ConfigInfo.RabbitMq.Username = viper.GetString("rabbitmq.username")
	ConfigInfo.RabbitMq.Password = viper.GetString("rabbitmq.password")

	ConfigInfo.Minio.Endpoint = viper.GetString("minio.endpoint")
	ConfigInfo.Minio.AccessKey = viper.GetString("minio.access_key")
	ConfigInfo.Minio.SecretKey = viper.GetString("minio.secret_key")
	ConfigInfo.Minio.UseSSL = viper.GetBool("minio.use_ssl")
	ConfigInfo.Minio.PublicURL = viper.GetString("minio.public_url")

	ConfigInfo.Jwt.Secret = viper.GetString("jwt.secret")
	ConfigInfo.Jwt.Timeout = viper.GetString("jwt.timeout")

	ConfigInfo.Sentinel.WriteQPS = viper.GetFloat64("sentinel.write_qps")

	ConfigInfo.Snowflake.WorkerID = viper.GetInt64("snowflake.worker_id")
	ConfigInfo.Snowflake.DatacenterID = viper.GetInt64("snowflake.datacenter_id")
}
