package store

import (
	"context"
	"time"

	"github.com/shopstream/shoprec/core"
)

// SeedSampleData 向任意 CatalogWriter 装载一份演示目录：
// 跨类目/品牌的商品、带偏好的用户、若干评分与浏览行为。
// 聚合字段（Rating/NumRatings）这里直接给种子值，真实链路中由
// aggregate.Aggregator 维护。
func SeedSampleData(ctx context.Context, w core.CatalogWriter) error {
	now := time.Now()

	products := []*core.Product{
		{ID: 1, Name: "MacBook Pro 16-inch", Category: "Electronics", Subcategory: "Laptops", Brand: "Apple", Price: 2499.99,
			Description: "M3 Pro chip, 16-inch Liquid Retina XDR display",
			Features:    []string{"M3 Pro chip", "32GB RAM", "1TB SSD"}, Rating: 4.8, NumRatings: 245, Stock: 15},
		{ID: 2, Name: "Dell XPS 15", Category: "Electronics", Subcategory: "Laptops", Brand: "Dell", Price: 1799.99,
			Description: "Intel Core i7, InfinityEdge display",
			Features:    []string{"Intel i7", "16GB RAM", "512GB SSD"}, Rating: 4.6, NumRatings: 189, Stock: 22},
		{ID: 3, Name: "ThinkPad X1 Carbon", Category: "Electronics", Subcategory: "Laptops", Brand: "Lenovo", Price: 1599.99,
			Description: "Business ultrabook, all-day battery",
			Features:    []string{"Intel i7", "14-inch display", "16GB RAM"}, Rating: 4.7, NumRatings: 156, Stock: 18},
		{ID: 4, Name: "iPhone 15 Pro", Category: "Electronics", Subcategory: "Smartphones", Brand: "Apple", Price: 999.99,
			Description: "Titanium design, A17 Pro chip",
			Features:    []string{"A17 Pro chip", "6.1-inch display"}, Rating: 4.9, NumRatings: 512, Stock: 40},
		{ID: 5, Name: "Samsung Galaxy S24 Ultra", Category: "Electronics", Subcategory: "Smartphones", Brand: "Samsung", Price: 1199.99,
			Description: "200MP camera, S Pen included",
			Features:    []string{"Snapdragon 8 Gen 3", "6.8-inch display"}, Rating: 4.7, NumRatings: 387, Stock: 33},
		{ID: 6, Name: "Sony WH-1000XM5", Category: "Electronics", Subcategory: "Headphones", Brand: "Sony", Price: 399.99,
			Description: "Industry-leading noise cancellation",
			Features:    []string{"30h battery", "ANC"}, Rating: 4.8, NumRatings: 298, Stock: 50},
		{ID: 7, Name: "AirPods Pro 2", Category: "Electronics", Subcategory: "Headphones", Brand: "Apple", Price: 249.99,
			Description: "Adaptive audio, USB-C charging",
			Features:    []string{"H2 chip", "ANC"}, Rating: 4.7, NumRatings: 421, Stock: 60},
		{ID: 8, Name: "Nike Air Zoom Pegasus 40", Category: "Sports", Subcategory: "Running Shoes", Brand: "Nike", Price: 129.99,
			Description: "Responsive everyday trainer",
			Features:    []string{"React foam", "Zoom Air"}, Rating: 4.5, NumRatings: 167, Stock: 80},
		{ID: 9, Name: "Adidas Ultraboost Light", Category: "Sports", Subcategory: "Running Shoes", Brand: "Adidas", Price: 189.99,
			Description: "Lightest Ultraboost ever",
			Features:    []string{"Boost midsole", "Primeknit upper"}, Rating: 4.6, NumRatings: 143, Stock: 65},
		{ID: 10, Name: "Instant Pot Duo 7-in-1", Category: "Home", Subcategory: "Kitchen", Brand: "Instant Pot", Price: 89.99,
			Description: "Pressure cooker, slow cooker, rice cooker and more",
			Features:    []string{"6 quart", "7 programs"}, Rating: 4.7, NumRatings: 892, Stock: 45},
		{ID: 11, Name: "Dyson V15 Detect", Category: "Home", Subcategory: "Vacuums", Brand: "Dyson", Price: 749.99,
			Description: "Laser dust detection",
			Features:    []string{"60min runtime", "HEPA filtration"}, Rating: 4.6, NumRatings: 234, Stock: 12},
		{ID: 12, Name: "Kindle Paperwhite", Category: "Electronics", Subcategory: "E-Readers", Brand: "Amazon", Price: 149.99,
			Description: "6.8-inch glare-free display",
			Features:    []string{"Waterproof", "Weeks of battery"}, Rating: 4.8, NumRatings: 1056, Stock: 0}, // 无库存，不应被推荐
	}
	for _, p := range products {
		p.CreatedAt = now
		if err := w.SaveProduct(ctx, p); err != nil {
			return err
		}
	}

	users := []*core.User{
		{ID: 1, Name: "Alice Johnson", Email: "alice@example.com",
			Preferences: core.Preferences{Categories: []string{"Electronics"}, Brands: []string{"Apple"}}},
		{ID: 2, Name: "Bob Smith", Email: "bob@example.com",
			Preferences: core.Preferences{Categories: []string{"Sports"}, Brands: []string{"Nike", "Adidas"}}},
		{ID: 3, Name: "Carol White", Email: "carol@example.com"},
	}
	for _, u := range users {
		u.CreatedAt = now
		if err := w.SaveUser(ctx, u); err != nil {
			return err
		}
	}

	ratings := []core.Rating{
		{UserID: 1, ProductID: 1, Score: 5, Review: "Best laptop I have owned"},
		{UserID: 1, ProductID: 4, Score: 5},
		{UserID: 1, ProductID: 6, Score: 4},
		{UserID: 2, ProductID: 1, Score: 4},
		{UserID: 2, ProductID: 4, Score: 4},
		{UserID: 2, ProductID: 8, Score: 5, Review: "Great daily trainer"},
		{UserID: 2, ProductID: 9, Score: 4},
		{UserID: 3, ProductID: 10, Score: 5},
	}
	for _, r := range ratings {
		r.Timestamp = now
		if err := w.SaveRating(ctx, r); err != nil {
			return err
		}
	}

	history := []core.HistoryEvent{
		{UserID: 1, ProductID: 2, Action: core.ActionView},
		{UserID: 1, ProductID: 3, Action: core.ActionView},
		{UserID: 1, ProductID: 7, Action: core.ActionClick},
		{UserID: 2, ProductID: 8, Action: core.ActionPurchase},
		{UserID: 2, ProductID: 9, Action: core.ActionView},
		{UserID: 2, ProductID: 5, Action: core.ActionView},
	}
	for i, ev := range history {
		ev.Timestamp = now.Add(time.Duration(i) * time.Second)
		if err := w.AppendHistory(ctx, ev); err != nil {
			return err
		}
	}

	return nil
}
