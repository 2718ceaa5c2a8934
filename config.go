package meshdata

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config 转换参数
type Config struct {
	MeshScale           float32 `toml:"mesh_scale"`
	CalculateLODs       bool    `toml:"calculate_lods"`
	MaxLODs             int     `toml:"max_lods"`
	LODIndexFloor       int     `toml:"lod_index_floor"`
	LODTargetError      float32 `toml:"lod_target_error"`
	OptimizeVertexFetch bool    `toml:"optimize_vertex_fetch"`
	MaterialIndex       uint32  `toml:"material_index"`
	LogLevel            string  `toml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		MeshScale:      DEFAULT_MESH_SCALE,
		MaxLODs:        MAX_LODS,
		LODIndexFloor:  DEFAULT_LOD_FLOOR,
		LODTargetError: DEFAULT_LOD_ERROR,
		MaterialIndex:  DEFAULT_MATERIAL_IDX,
		LogLevel:       "info",
	}
}

// LoadConfig 在默认值之上读取 TOML 配置，未知字段报错
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxLODs < 1 || c.MaxLODs > MAX_LODS {
		return fmt.Errorf("config: %w: max_lods %d must be within 1..%d", ErrCapacity, c.MaxLODs, MAX_LODS)
	}
	if c.LODIndexFloor < 0 {
		return fmt.Errorf("config: lod_index_floor %d is negative", c.LODIndexFloor)
	}
	if c.LODTargetError < 0 {
		return fmt.Errorf("config: lod_target_error %g is negative", c.LODTargetError)
	}
	if c.MeshScale == 0 {
		return fmt.Errorf("config: mesh_scale must not be zero")
	}
	return nil
}
