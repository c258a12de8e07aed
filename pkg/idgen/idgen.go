package idgen

// Generator 唯一 ID 生成器
type Generator interface {
	NextID() (int64, error)
}

// GeneratorFunc 函数式 Generator
type GeneratorFunc func() (int64, error)

func (f GeneratorFunc) NextID() (int64, error) { return f() }

// Config ID 生成器配置
type Config struct {
	// MachineID 同一集群内每个实例唯一 (0-65535)
	MachineID uint16 `mapstructure:"machine_id"`
}
