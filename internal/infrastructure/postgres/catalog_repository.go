package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
)

// ── Categorías ───────────────────────────────────────────────────────────────

// CategoryRepo categorías de producto sobre product_categories.
type CategoryRepo struct {
	db querier
}

// NewCategoryRepository construye el repositorio de categorías.
func NewCategoryRepository(db querier) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create persiste una categoría; el nombre repetido devuelve domain.ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO product_categories (name) VALUES ($1) RETURNING category_id, created_at, updated_at`, c.Name,
	).Scan(&c.CategoryID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("categoría %q: %w", c.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var c entity.Category
	err := r.db.QueryRow(ctx,
		`SELECT category_id, name, created_at, updated_at FROM product_categories WHERE category_id = $1`, id,
	).Scan(&c.CategoryID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List lista todas las categorías por ID.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT category_id, name, created_at, updated_at FROM product_categories ORDER BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update renombra una categoría.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	err := r.db.QueryRow(ctx,
		`UPDATE product_categories SET name = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE category_id = $1 RETURNING created_at, updated_at`,
		c.CategoryID, c.Name,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("categoría %d: %w", c.CategoryID, domain.ErrNotFound)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("categoría %q: %w", c.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete elimina una categoría sin productos.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM product_categories WHERE category_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("la categoría %d tiene productos: %w", id, domain.ErrInUse)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("categoría %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ── Proveedores ──────────────────────────────────────────────────────────────

// SupplierRepo proveedores sobre la tabla suppliers.
type SupplierRepo struct {
	db querier
}

// NewSupplierRepository construye el repositorio de proveedores.
func NewSupplierRepository(db querier) *SupplierRepo {
	return &SupplierRepo{db: db}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO suppliers (name, contact_info) VALUES ($1, $2) RETURNING supplier_id, created_at, updated_at`,
		s.Name, s.ContactInfo,
	).Scan(&s.SupplierID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.db.QueryRow(ctx,
		`SELECT supplier_id, name, contact_info, created_at, updated_at FROM suppliers WHERE supplier_id = $1`, id,
	).Scan(&s.SupplierID, &s.Name, &s.ContactInfo, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// List lista todos los proveedores por ID.
func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	rows, err := r.db.Query(ctx, `SELECT supplier_id, name, contact_info, created_at, updated_at FROM suppliers ORDER BY supplier_id`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.SupplierID, &s.Name, &s.ContactInfo, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update actualiza nombre y contacto.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	err := r.db.QueryRow(ctx,
		`UPDATE suppliers SET name = $2, contact_info = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE supplier_id = $1 RETURNING created_at, updated_at`,
		s.SupplierID, s.Name, s.ContactInfo,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("proveedor %d: %w", s.SupplierID, domain.ErrNotFound)
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// Delete elimina un proveedor sin productos.
func (r *SupplierRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE supplier_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("el proveedor %d tiene productos: %w", id, domain.ErrInUse)
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("proveedor %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ── Productos ────────────────────────────────────────────────────────────────

const productSelect = `
	SELECT p.product_id, p.sku, p.name, p.description, p.category_id, p.supplier_id,
	       COALESCE(c.name, ''), COALESCE(s.name, ''), p.price, p.created_at, p.updated_at
	FROM products p
	LEFT JOIN product_categories c ON c.category_id = p.category_id
	LEFT JOIN suppliers s ON s.supplier_id = p.supplier_id`

// ProductRepo catálogo de productos; price es NUMERIC leído como decimal.Decimal.
type ProductRepo struct {
	db querier
}

// NewProductRepository construye el repositorio de productos.
func NewProductRepository(db querier) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create persiste un producto. SKU repetido devuelve domain.ErrDuplicate y
// una categoría o proveedor inexistente domain.ErrNotFound.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (sku, name, description, category_id, supplier_id, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING product_id, created_at, updated_at`,
		p.SKU, p.Name, p.Description, p.CategoryID, p.SupplierID, p.Price,
	).Scan(&p.ProductID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return productWriteError(err, p)
	}
	return nil
}

// GetByID obtiene un producto con los nombres de categoría y proveedor.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, productSelect+` WHERE p.product_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List lista productos por ID con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.db.Query(ctx, productSelect+` ORDER BY p.product_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza todo salvo el SKU.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	err := r.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, category_id = $4, supplier_id = $5, price = $6, updated_at = CURRENT_TIMESTAMP
		WHERE product_id = $1
		RETURNING created_at, updated_at`,
		p.ProductID, p.Name, p.Description, p.CategoryID, p.SupplierID, p.Price,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("producto %d: %w", p.ProductID, domain.ErrNotFound)
		}
		return productWriteError(err, p)
	}
	return nil
}

// Delete elimina un producto sin existencias.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("el producto %d tiene existencias: %w", id, domain.ErrInUse)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func productWriteError(err error, p *entity.Product) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("SKU %q: %w", p.SKU, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("categoría o proveedor del producto: %w", domain.ErrNotFound)
	case isCheckViolation(err):
		return fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	}
	return fmt.Errorf("write product: %w", err)
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ProductID, &p.SKU, &p.Name, &p.Description, &p.CategoryID, &p.SupplierID,
		&p.CategoryName, &p.SupplierName, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
