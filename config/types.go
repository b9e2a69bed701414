package config

type config struct {
	Server    server    `yaml:"server" mapstructure:"server"`
	Mysql     mysql     `yaml:"mysql" mapstructure:"mysql"`
	Redis     redis     `yaml:"redis" mapstructure:"redis"`
	RabbitMq  rabbitmq  `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Minio     minio     `yaml:"minio" mapstructure:"minio"`
	Jwt       jwt       `yaml:"jwt" mapstructure:"jwt"`
	Sentinel  sentinel  `yaml:"sentinel" mapstructure:"sentinel"`
	Snowflake snowflake `yaml:"snowflake" mapstructure:"snowflake"`
}

type server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxBodySize    int      `yaml:"max_body_size" mapstructure:"max_body_size"`
	PprofAddr      string   `yaml:"pprof_addr" mapstructure:"pprof_addr"`
}

type mysql struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`
}

type redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type rabbitmq struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type minio struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	PublicURL string `yaml:"public_url" mapstructure:"public_url"`
}

type jwt struct {
	Secret  string `yaml:"secret"`
	Timeout string `yaml:"timeout"`
}

type sentinel struct {
	WriteQPS float64 `yaml:"write_qps" mapstructure:"write_qps"`
}

type snowflake struct {
	WorkerID     int64 `yaml:"worker_id" mapstructure:"worker_id"`
	DatacenterID int64 `yaml:"datacenter_id" mapstructure:"datacenter_id"`
}
