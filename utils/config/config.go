package config

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// DefaultScenario 默认场景参数
func DefaultScenario() Scenario {
	return Scenario{
		Seed:                       0,
		FramesPerDay:               12,
		Rooms:                      1,
		Members:                    2000,
		NumberInfected:             3,
		DeathRate:                  0.01,
		DeathRateWithoutHealthcare: 0.5,
		MaxInfectedTime:            20,
		InfectionRate:              0.2,
		Shape:                      Shape{Width: 100, Height: 100},
		Border:                     2,
		Radius:                     2,
		Speed:                      0.5,
		HealthcareMax:              0.2,
		BedChance:                  0.5,
		Cluster: ClusterPolicy{
			JumpyPercentage: 0.01,
			JumpTime:        10,
		},
		Supermarket: SupermarketPolicy{
			ShoppingTime: 1,
			Shape:        Shape{Width: 10, Height: 30},
		},
		Quarantine: QuarantinePolicy{
			SymptomChance: 0.3,
		},
	}
}

// Default 默认配置
func Default() Config {
	return Config{
		Scenario: DefaultScenario(),
		Control: Control{
			TickInterval: 1,
			Heartbeat:    10,
		},
	}
}

// Load 解析YAML配置
// 功能：在默认配置之上严格解析YAML，未知字段视为错误
// 参数：data-YAML文本
// 返回：配置对象与错误
func Load(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate 检查配置中不可能由clamp修复的错误
func (c Config) Validate() error {
	s := c.Scenario
	if s.FramesPerDay <= 0 {
		return fmt.Errorf("config: frames_per_day must be positive, got %d", s.FramesPerDay)
	}
	if s.Rooms <= 0 {
		return fmt.Errorf("config: rooms must be positive, got %d", s.Rooms)
	}
	if s.Members < 0 || s.NumberInfected < 0 {
		return fmt.Errorf("config: members and number_infected must not be negative")
	}
	if s.MaxInfectedTime <= 0 {
		return fmt.Errorf("config: max_infected_time must be positive, got %d", s.MaxInfectedTime)
	}
	if c.Output.URI != "" && (c.Output.DB == "" || c.Output.Col == "") {
		return fmt.Errorf("config: output db and col are required when output uri is set")
	}
	return nil
}
