package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dnguyen-dev/bistro/app/models"
)

func init() {
	Register("menu", SeedMenu)
}

// SeedMenu loads the launch menu. Re-running updates rows in place so
// price changes land without duplicating codes.
func SeedMenu(db *gorm.DB) error {
	items := []models.MenuItem{
		{
			Code:         "1",
			Name:         "Tôm Tempura Nhật Bản",
			Price:        24.00,
			Category:     models.CategoryAppetizers,
			IsBestSeller: true,
			Image:        "https://images.unsplash.com/photo-1715187935352-728a800d663d?w=1080&q=80",
			Description:  "Tôm tươi được tuyển chọn kỹ lưỡng, chiên giòn với lớp bột tempura mỏng nhẹ theo công thức truyền thống Nhật Bản. Được phục vụ kèm sốt tentsuyu đặc biệt và rau củ tươi ngon.",
		},
		{
			Code:         "2",
			Name:         "Súp Bí Đỏ Kem",
			Price:        16.00,
			Category:     models.CategoryAppetizers,
			IsBestSeller: true,
			Image:        "https://images.unsplash.com/photo-1750943082012-efe6d2fd9e45?w=1080&q=80",
			Description:  "Súp bí đỏ béo ngậy được nấu từ bí đỏ tươi, kết hợp hoàn hảo với kem tươi cao cấp. Hương vị ngọt tự nhiên của bí đỏ hòa quyện cùng vị béo mịn của kem, tạo nên một món khai vị ấm áp và đầy dinh dưỡng.",
		},
		{
			Code:        "3",
			Name:        "Salad Caesar Truyền Thống",
			Price:       18.00,
			Category:    models.CategoryAppetizers,
			Image:       "https://images.unsplash.com/photo-1750943082012-efe6d2fd9e45?w=1080&q=80",
			Description: "Xà lách romaine tươi với sốt Caesar đặc trưng",
		},
		{
			Code:         "4",
			Name:         "Bò Bít Tết Wagyu",
			Price:        45.00,
			Category:     models.CategoryMain,
			IsBestSeller: true,
			Image:        "https://images.unsplash.com/photo-1712746785126-e9f28b5b3cc0?w=1080&q=80",
			Description:  "Thịt bò Wagyu A5 cao cấp nhập khẩu trực tiếp từ Nhật Bản, có độ marbling hoàn hảo. Được nướng chín vừa theo yêu cầu, mang đến độ mềm tan trong miệng cùng hương vị béo ngậy đặc trưng. Phục vụ kèm rau củ nướng và sốt tiêu đen đặc biệt.",
		},
		{
			Code:         "5",
			Name:         "Cá Hồi Nướng Bơ Chanh",
			Price:        38.00,
			Category:     models.CategoryMain,
			IsBestSeller: true,
			Image:        "https://images.unsplash.com/photo-1625944226626-9bd664656506?w=1080&q=80",
			Description:  "Cá hồi tươi nướng với sốt bơ chanh thơm lừng",
		},
		{
			Code:         "6",
			Name:         "Pasta Truffle Nấm",
			Price:        32.00,
			Category:     models.CategoryMain,
			IsBestSeller: true,
			Image:        "https://images.unsplash.com/photo-1667473775795-41f69ae72c44?w=1080&q=80",
			Description:  "Mì fettuccine Ý được làm tươi mỗi ngày, xào cùng nhiều loại nấm cao cấp (nấm mỡ, nấm shiitake, nấm hương) trong sốt kem Parmesan đậm đà. Hoàn thiện với dầu truffle đen quý hiếm và phô mai Grana Padano bào mỏng.",
		},
		{
			Code:        "7",
			Name:        "Gà Nướng Thảo Mộc",
			Price:       28.00,
			Category:    models.CategoryMain,
			Image:       "https://images.unsplash.com/photo-1750943082012-efe6d2fd9e45?w=1080&q=80",
			Description: "Gà nướng với các loại thảo mộc tươi",
		},
		{
			Code:        "8",
			Name:        "Cơm Chiên Hải Sản",
			Price:       22.00,
			Category:    models.CategoryMain,
			Image:       "https://images.unsplash.com/photo-1715187935352-728a800d663d?w=1080&q=80",
			Description: "Cơm chiên đậm đà với hải sản tươi ngon",
		},
		{
			Code:         "9",
			Name:         "Tiramisu Ý Truyền Thống",
			Price:        18.00,
			Category:     models.CategoryDesserts,
			IsBestSeller: true,
			Image:        "https://images.unsplash.com/photo-1662230791691-b77f85c5b43a?w=1080&q=80",
			Description:  "Tiramisu chính hiệu được làm theo công thức truyền thống của Ý với lớp bánh Savoiardi thấm cà phê espresso đắng, xen kẽ với kem mascarpone mịn màng. Rắc bột cacao nguyên chất và trang trí với chocolate đen cao cấp.",
		},
		{
			Code:        "10",
			Name:        "Bánh Panna Cotta",
			Price:       15.00,
			Category:    models.CategoryDesserts,
			Image:       "https://images.unsplash.com/photo-1662230791691-b77f85c5b43a?w=1080&q=80",
			Description: "Bánh Panna Cotta mềm mịn với sốt dâu",
		},
		{
			Code:        "11",
			Name:        "Kem Vani Madagascar",
			Price:       12.00,
			Category:    models.CategoryDesserts,
			Image:       "https://images.unsplash.com/photo-1662230791691-b77f85c5b43a?w=1080&q=80",
			Description: "Kem vani Madagascar thượng hạng",
		},
		{
			Code:         "12",
			Name:         "Bánh Chocolate Lava",
			Price:        16.00,
			Category:     models.CategoryDesserts,
			IsBestSeller: true,
			Image:        "https://images.unsplash.com/photo-1662230791691-b77f85c5b43a?w=1080&q=80",
			Description:  "Bánh chocolate nóng chảy bên trong",
		},
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "category", "is_best_seller", "image", "description"}),
	}).Create(&items).Error
}
