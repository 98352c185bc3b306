package repository

import (
	"context"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/workflow"
)

// Методы для работы с пакетами услуг

func (r *Repository) GetPackage(ctx context.Context, id uint) (*ds.Package, error) {
	var pkg ds.Package
	err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&pkg).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &pkg, nil
}

// Получить все пакеты (или поиск по имени)
func (r *Repository) ListPackages(ctx context.Context, name string) ([]ds.Package, error) {
	var packages []ds.Package
	q := r.db.WithContext(ctx).Where("is_deleted = ?", false)
	if name != "" {
		q = q.Where("name ILIKE ?", "%"+name+"%")
	}
	err := q.Order("cost ASC").Find(&packages).Error
	return packages, err
}

func (r *Repository) CreatePackage(ctx context.Context, pkg *ds.Package) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

// Логическое удаление пакета. Уже созданные договоры хранят свою цену.
func (r *Repository) DeletePackage(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&ds.Package{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return workflow.ErrNotFound
	}
	return nil
}
