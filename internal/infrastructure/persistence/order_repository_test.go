package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("finds order with lines", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		orderID := uuid.New()
		purchaserID := uuid.New()
		lineID := uuid.New()
		productVersionID := uuid.New()

		orderRows := sqlmock.NewRows([]string{"id", "purchaser_id", "status", "total_paid", "version"}).
			AddRow(orderID, purchaserID, "fulfilled", decimal.NewFromFloat(249.00), 2)
		lineRows := sqlmock.NewRows([]string{"id", "order_id", "product_version_id", "quantity"}).
			AddRow(lineID, orderID, productVersionID, 1)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
			WithArgs(orderID, 1).
			WillReturnRows(orderRows)
		mock.ExpectQuery(`SELECT \* FROM "lines" WHERE "lines"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(lineRows)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, ecommerce.OrderStatusFulfilled, order.Status)
		require.Len(t, order.Lines, 1)
		assert.Equal(t, productVersionID, order.Lines[0].ProductVersionID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing order", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.Nil(t, order)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormB2BCouponRepository_HasSettledRedemption(t *testing.T) {
	t.Run("true when a redemption settled", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormB2BCouponRepository(db)

		couponID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM b2b_coupon_redemptions cr JOIN b2b_orders o ON o\.id = cr\.order_id WHERE cr\.coupon_id = \$1 AND o\.status IN \(\$2,\$3\)`).
			WithArgs(couponID, "fulfilled", "refunded").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		settled, err := repo.HasSettledRedemption(context.Background(), couponID)

		assert.NoError(t, err)
		assert.True(t, settled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("false when no settled redemption exists", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormB2BCouponRepository(db)

		couponID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM b2b_coupon_redemptions cr JOIN b2b_orders o ON o\.id = cr\.order_id WHERE cr\.coupon_id = \$1 AND o\.status IN \(\$2,\$3\)`).
			WithArgs(couponID, "fulfilled", "refunded").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		settled, err := repo.HasSettledRedemption(context.Background(), couponID)

		assert.NoError(t, err)
		assert.False(t, settled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormB2BOrderRepository_FindByUniqueID(t *testing.T) {
	t.Run("finds order by unique id", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormB2BOrderRepository(db)

		orderID := uuid.New()
		uniqueID := uuid.New()
		rows := sqlmock.NewRows([]string{
			"id", "status", "num_seats", "email", "product_version_id",
			"per_item_price", "total_price", "unique_id", "version",
		}).AddRow(orderID, "created", 25, "training@acme.example", uuid.New(),
			decimal.NewFromFloat(199.00), decimal.NewFromFloat(4975.00), uniqueID, 1)

		mock.ExpectQuery(`SELECT \* FROM "b2b_orders" WHERE unique_id = \$1`).
			WithArgs(uniqueID, 1).
			WillReturnRows(rows)

		order, err := repo.FindByUniqueID(context.Background(), uniqueID)

		assert.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, 25, order.NumSeats)
		assert.Equal(t, uniqueID, order.UniqueID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
