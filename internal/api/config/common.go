package config

// Config 配置主体
type Config struct {
	Server                   ServerConfig             `mapstructure:"server"`
	DB                       DBConfig                 `mapstructure:"database"`
	Redis                    RedisConfig              `mapstructure:"redis"`
	Logstash                 LogstashConfig           `mapstructure:"logstash"`
	Analytics                AnalyticsConfig          `mapstructure:"analytics"`
	Cache                    CacheConfig              `mapstructure:"cache"`
	Kafka                    KafkaConfig              `mapstructure:"kafka"`
	KafkaInteractionConsumer KafkaInteractionConsumer `mapstructure:"kafka_interaction_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 日志远程上报配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// AnalyticsConfig 计数聚合与异常防护配置
type AnalyticsConfig struct {
	FlushInterval    int  `mapstructure:"flush_interval"`    // 刷盘周期，秒
	AnomalyThreshold int  `mapstructure:"anomaly_threshold"` // 窗口内允许的事件数
	AnomalyWindow    int  `mapstructure:"anomaly_window"`    // 异常统计窗口，秒
	DedupByUser      bool `mapstructure:"dedup_by_user"`     // 去重身份是否包含用户ID
}

// CacheConfig 响应缓存配置
type CacheConfig struct {
	TTL int `mapstructure:"ttl"` // 秒
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaInteractionConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
