package stubserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open stub database: %w", err)
	}

	if err := db.AutoMigrate(
		&ProductRecord{},
		&OTPChallenge{},
		&OrderRecord{},
		&OrderItemRecord{},
		&ProfileRecord{},
		&AddressRecord{},
	); err != nil {
		return nil, fmt.Errorf("migrate stub database: %w", err)
	}

	return db, nil
}

type ProductRepository interface {
	All(ctx context.Context) ([]ProductRecord, error)
	ByID(ctx context.Context, id string) (*ProductRecord, error)
	Seed(ctx context.Context, products []ProductRecord) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{db: db}
}

func (r *productRepoImpl) All(ctx context.Context) ([]ProductRecord, error) {
	var products []ProductRecord
	err := r.db.WithContext(ctx).Order("id").Find(&products).Error
	return products, err
}

func (r *productRepoImpl) ByID(ctx context.Context, id string) (*ProductRecord, error) {
	var product ProductRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Seed inserts the catalog once; an already-seeded database is left
// alone.
func (r *productRepoImpl) Seed(ctx context.Context, products []ProductRecord) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProductRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&products).Error
}

type AuthRepository interface {
	SaveChallenge(ctx context.Context, phone, code string, ttl time.Duration) error
	ConsumeChallenge(ctx context.Context, phone, code string) (bool, error)
}

type authRepoImpl struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepoImpl{db: db}
}

func (r *authRepoImpl) SaveChallenge(ctx context.Context, phone, code string, ttl time.Duration) error {
	// A fresh request supersedes earlier codes for the same phone.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone = ?", phone).Delete(&OTPChallenge{}).Error; err != nil {
			return err
		}
		return tx.Create(&OTPChallenge{
			Phone:     phone,
			Code:      code,
			ExpiresAt: time.Now().Add(ttl),
		}).Error
	})
}

// ConsumeChallenge checks the code and deletes it so it cannot be
// replayed.
func (r *authRepoImpl) ConsumeChallenge(ctx context.Context, phone, code string) (bool, error) {
	var challenge OTPChallenge
	err := r.db.WithContext(ctx).
		Where("phone = ? AND code = ? AND expires_at > ?", phone, code, time.Now()).
		First(&challenge).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := r.db.WithContext(ctx).Delete(&challenge).Error; err != nil {
		return false, err
	}
	return true, nil
}

type OrderRepository interface {
	Create(ctx context.Context, order *OrderRecord, items []OrderItemRecord) error
	AllByPhone(ctx context.Context, phone string) ([]OrderRecord, error)
	ByID(ctx context.Context, phone, orderID string) (*OrderRecord, []OrderItemRecord, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *OrderRecord, items []OrderItemRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.OrderID
		}
		return tx.Create(&items).Error
	})
}

func (r *orderRepoImpl) AllByPhone(ctx context.Context, phone string) ([]OrderRecord, error) {
	var orders []OrderRecord
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepoImpl) ByID(ctx context.Context, phone, orderID string) (*OrderRecord, []OrderItemRecord, error) {
	var order OrderRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND phone = ?", orderID, phone).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var items []OrderItemRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

type ProfileRepository interface {
	GetOrCreate(ctx context.Context, phone string) (*ProfileRecord, []AddressRecord, error)
	Update(ctx context.Context, profile *ProfileRecord) error
	AddAddress(ctx context.Context, addr *AddressRecord) error
	UpdateAddress(ctx context.Context, addr *AddressRecord) error
	DeleteAddress(ctx context.Context, phone, id string) error
	SetDefaultAddress(ctx context.Context, phone, id string) error
}

type profileRepoImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepoImpl{db: db}
}

func (r *profileRepoImpl) GetOrCreate(ctx context.Context, phone string) (*ProfileRecord, []AddressRecord, error) {
	var profile ProfileRecord
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = ProfileRecord{Phone: phone}
		err = r.db.WithContext(ctx).Create(&profile).Error
	}
	if err != nil {
		return nil, nil, err
	}

	var addresses []AddressRecord
	if err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at").
		Find(&addresses).Error; err != nil {
		return nil, nil, err
	}
	return &profile, addresses, nil
}

func (r *profileRepoImpl) Update(ctx context.Context, profile *ProfileRecord) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepoImpl) AddAddress(ctx context.Context, addr *AddressRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if addr.IsDefault {
			if err := tx.Model(&AddressRecord{}).
				Where("phone = ?", addr.Phone).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(addr).Error
	})
}

func (r *profileRepoImpl) UpdateAddress(ctx context.Context, addr *AddressRecord) error {
	result := r.db.WithContext(ctx).
		Model(&AddressRecord{}).
		Where("id = ? AND phone = ?", addr.ID, addr.Phone).
		Updates(map[string]interface{}{
			"street":   addr.Street,
			"city":     addr.City,
			"state":    addr.State,
			"zip_code": addr.ZipCode,
			"country":  addr.Country,
			"label":    addr.Label,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *profileRepoImpl) DeleteAddress(ctx context.Context, phone, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND phone = ?", id, phone).
		Delete(&AddressRecord{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *profileRepoImpl) SetDefaultAddress(ctx context.Context, phone, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&AddressRecord{}).
			Where("id = ? AND phone = ?", id, phone).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&AddressRecord{}).
			Where("phone = ? AND id <> ?", phone, id).
			Update("is_default", false).Error
	})
}
