package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 注意：这里需要使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&UserModel{},
		&CategoryModel{},
		&ProductModel{},
		&WarehouseModel{},
		&StockMovementModel{},
		&StockLevelModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	Role      string         `gorm:"size:16;not null;default:customer;comment:角色(customer/admin)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// CategoryModel GORM商品分类模型
type CategoryModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"uniqueIndex;size:50;not null;comment:分类名称"`
	Description string    `gorm:"size:255;comment:分类描述"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// ProductModel GORM商品模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. SKU有唯一索引,防止重复
// 3. 没有库存字段——库存由stock_movements流水折算
// 4. DiscountPrice用指针映射可空列,NULL表示无折扣
type ProductModel struct {
	ID            uint           `gorm:"primaryKey"`
	SKU           string         `gorm:"uniqueIndex;size:32;not null;comment:商品编码"`
	Name          string         `gorm:"index:idx_search;size:200;not null;comment:商品名称"` // 搜索索引
	Description   string         `gorm:"type:text;comment:商品描述"`
	CategoryID    uint           `gorm:"index;comment:所属分类ID"`
	Price         int64          `gorm:"index:idx_list;not null;comment:基础价格(分)"` // 排序索引
	DiscountPrice *int64         `gorm:"comment:折扣价(分),NULL表示无折扣"`
	ImageURL      string         `gorm:"size:500;comment:商品图片URL"`
	Active        bool           `gorm:"index;default:true;comment:上架标志"`
	CreatedAt     time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt     time.Time      `gorm:"comment:更新时间"`
	DeletedAt     gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

// WarehouseModel GORM仓库模型
type WarehouseModel struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"uniqueIndex;size:32;not null;comment:仓库编码"`
	Name      string    `gorm:"size:100;not null;comment:仓库名称"`
	Address   string    `gorm:"size:255;comment:仓库地址"`
	Active    bool      `gorm:"default:true;comment:启用标志"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// StockMovementModel GORM库存流水模型
// 教学要点:
// 1. 账本表只INSERT,没有UpdatedAt和DeletedAt——表结构就表达了"只追加"
// 2. (warehouse_id, product_id)复合索引服务SumByKind聚合查询
// 3. (ref_type, ref_id)复合索引服务"某订单产生了哪些流水"的审计查询
type StockMovementModel struct {
	ID          uint      `gorm:"primaryKey"`
	WarehouseID uint      `gorm:"index:idx_target;not null;comment:仓库ID"`
	ProductID   uint      `gorm:"index:idx_target;not null;comment:商品ID"`
	Kind        int       `gorm:"type:tinyint;not null;comment:流水类型(1入库2出库3调整)"`
	Quantity    int64     `gorm:"not null;comment:数量(恒为正数)"`
	RefType     int       `gorm:"index:idx_ref;type:tinyint;default:0;comment:来源类型(0无1订单2采购3人工)"`
	RefID       uint      `gorm:"index:idx_ref;default:0;comment:来源ID"`
	Note        string    `gorm:"size:255;comment:备注"`
	CreatedAt   time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// StockLevelModel GORM库存快照模型
// 教学要点:
// 1. (warehouse_id, product_id)复合主键,一个维度一行
// 2. 这一行是下单事务SELECT FOR UPDATE的锁点,也是账本的增量缓存
// 3. 对账时以流水折算为准,快照只是加速与锁
type StockLevelModel struct {
	WarehouseID uint      `gorm:"primaryKey;autoIncrement:false;comment:仓库ID"`
	ProductID   uint      `gorm:"primaryKey;autoIncrement:false;comment:商品ID"`
	Quantity    int64     `gorm:"not null;default:0;comment:缓存的当前库存"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (StockLevelModel) TableName() string {
	return "stock_levels"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderItemModel是一对多关系
// 2. Code有唯一索引(业务主键,撞号时由仓储翻译成领域错误)
// 3. 收货人信息是下单时刻的快照列,不关联用户表
type OrderModel struct {
	ID            uint             `gorm:"primaryKey"`
	Code          string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID        uint             `gorm:"index;not null;comment:买家用户ID"`
	WarehouseID   uint             `gorm:"index;not null;comment:发货仓库ID"`
	Status        int              `gorm:"index;type:tinyint;default:1;comment:订单状态(1新建2已确认3已发货4已送达5已取消)"`
	FullName      string           `gorm:"size:50;not null;comment:收货人姓名"`
	Phone         string           `gorm:"size:20;not null;comment:联系电话"`
	Address       string           `gorm:"size:255;not null;comment:收货地址"`
	City          string           `gorm:"size:50;comment:城市"`
	Total         int64            `gorm:"not null;comment:订单总金额(分)"`
	PaymentMethod string           `gorm:"size:16;not null;default:COD;comment:支付方式"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt     time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 教学要点:
// 1. Name/SKU/UnitPrice是下单时刻的商品快照(价格冻结)
// 2. ProductID只作审计回溯,之后商品改价改名不影响这条明细
type OrderItemModel struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   uint   `gorm:"index;not null;comment:订单ID"`
	ProductID uint   `gorm:"index;not null;comment:商品ID"`
	Name      string `gorm:"size:200;not null;comment:下单时的商品名称"`
	SKU       string `gorm:"size:32;not null;comment:下单时的SKU"`
	UnitPrice int64  `gorm:"not null;comment:下单时单价(分)"`
	Quantity  int64  `gorm:"not null;comment:购买数量"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}
