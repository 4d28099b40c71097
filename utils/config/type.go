package config

// Shape 房间尺寸
type Shape struct {
	Width  float64 `yaml:"width"`  // 宽度
	Height float64 `yaml:"height"` // 高度
}

// ClusterPolicy 多房间跳跃场景配置
type ClusterPolicy struct {
	JumpyPercentage float64 `yaml:"jumpy_percentage"` // 能够在房间之间跳跃的人的比例
	JumpTime        int32   `yaml:"jump_time"`        // 两次跳跃之间的帧数
}

// SupermarketPolicy 超市场景配置
type SupermarketPolicy struct {
	ShoppingTime int32 `yaml:"shopping_time"` // 每次在超市停留的帧数
	Shape        Shape `yaml:"shape"`         // 超市尺寸
}

// QuarantinePolicy 隔离场景配置
type QuarantinePolicy struct {
	SymptomChance float64 `yaml:"symptom_chance"` // 出现症状（会被隔离）的人的比例
}

// Scenario 场景参数
// 功能：描述一次仿真的全部人群、疾病、医疗资源参数以及场景变体
// 说明：默认值与DefaultScenario一致，YAML中未出现的字段保留默认值
type Scenario struct {
	Seed                       uint64  `yaml:"seed"`                         // 随机数种子
	FramesPerDay               int32   `yaml:"frames_per_day"`               // 每天的移动帧数
	Rooms                      int32   `yaml:"rooms"`                        // 人群房间数
	Members                    int32   `yaml:"members"`                      // 每个房间的人数
	NumberInfected             int32   `yaml:"number_infected"`              // 每个房间初始感染人数
	DeathRate                  float64 `yaml:"deathrate"`                    // 有床位时的死亡率
	DeathRateWithoutHealthcare float64 `yaml:"deathrate_without_healthcare"` // 无床位时的死亡率
	MaxInfectedTime            int32   `yaml:"max_infected_time"`            // 感染持续天数
	InfectionRate              float64 `yaml:"infection_rate"`               // 接触时的感染概率
	Shape                      Shape   `yaml:"shape"`                        // 房间尺寸
	Border                     float64 `yaml:"border"`                       // 房间边距
	Radius                     float64 `yaml:"radius"`                       // 感染半径
	Speed                      float64 `yaml:"speed"`                        // 每帧移动距离
	HealthcareMax              float64 `yaml:"healthcare_max"`               // 床位数占总人数的比例
	BedChance                  float64 `yaml:"bed_chance"`                   // 需要床位的人的比例
	Jitter                     float64 `yaml:"jitter,omitempty"`             // 个体参数扰动幅度，0表示同质

	Policies    []string          `yaml:"policies,omitempty"` // 启用的场景变体（cluster supermarket quarantine）
	Cluster     ClusterPolicy     `yaml:"cluster"`
	Supermarket SupermarketPolicy `yaml:"supermarket"`
	Quarantine  QuarantinePolicy  `yaml:"quarantine"`
}

// Control 运行控制配置
type Control struct {
	TickInterval int32  `yaml:"tick_interval"`    // 每帧之间的间隔（毫秒）
	Days         int32  `yaml:"days"`             // 仿真总天数，0表示不限
	Heartbeat    int32  `yaml:"heartbeat"`        // 心跳日志间隔天数
	Paused       bool   `yaml:"paused,omitempty"` // 启动时是否暂停
	Listen       string `yaml:"listen,omitempty"` // 控制服务监听地址，为空则不启动
}

// Output 每日统计输出配置（MongoDB）
type Output struct {
	URI string `yaml:"uri"` // MongoDB连接字符串，为空则不输出
	DB  string `yaml:"db"`  // 数据库名
	Col string `yaml:"col"` // 集合名
}

// GetDb 获取数据库名
func (o Output) GetDb() string {
	return o.DB
}

// GetColl 获取集合名
func (o Output) GetColl() string {
	return o.Col
}

// Config YAML配置文件的根结构
type Config struct {
	Scenario Scenario `yaml:"scenario"` // 场景
	Control  Control  `yaml:"control"`  // 运行控制
	Output   Output   `yaml:"output"`   // 输出
}
