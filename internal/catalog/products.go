package catalog

// sampleProducts is the built-in storefront inventory.
var sampleProducts = []Product{
	{
		ID:            "1",
		Name:          "Wireless Bluetooth Headphones",
		Price:         7999,
		OriginalPrice: 9999,
		Image:         "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&h=400&fit=crop",
		Rating:        4.5,
		Reviews:       128,
		Category:      "Electronics",
		Description:   "High-quality wireless headphones with noise cancellation and 30-hour battery life.",
		InStock:       true,
	},
	{
		ID:            "2",
		Name:          "Organic Cotton T-Shirt",
		Price:         2499,
		OriginalPrice: 3499,
		Image:         "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400&h=400&fit=crop",
		Rating:        4.2,
		Reviews:       89,
		Category:      "Clothing",
		Description:   "Comfortable and sustainable organic cotton t-shirt in various colors.",
		InStock:       true,
	},
	{
		ID:            "3",
		Name:          "Smart Fitness Watch",
		Price:         19999,
		OriginalPrice: 24999,
		Image:         "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop",
		Rating:        4.7,
		Reviews:       256,
		Category:      "Electronics",
		Description:   "Advanced fitness tracking with heart rate monitor and GPS.",
		InStock:       true,
	},
	{
		ID:            "4",
		Name:          "Ceramic Coffee Mug",
		Price:         1299,
		OriginalPrice: 1899,
		Image:         "https://images.unsplash.com/photo-1514228742587-6b1558fcf93a?w=400&h=400&fit=crop",
		Rating:        4.3,
		Reviews:       67,
		Category:      "Home",
		Description:   "Handcrafted ceramic mug perfect for your morning coffee.",
		InStock:       true,
	},
	{
		ID:            "5",
		Name:          "Leather Wallet",
		Price:         4599,
		OriginalPrice: 6599,
		Image:         "https://images.unsplash.com/photo-1627123424574-724758594e93?w=400&h=400&fit=crop",
		Rating:        4.6,
		Reviews:       143,
		Category:      "Accessories",
		Description:   "Premium leather wallet with RFID protection and multiple card slots.",
		InStock:       true,
	},
	{
		ID:            "6",
		Name:          "Yoga Mat",
		Price:         2999,
		OriginalPrice: 3999,
		Image:         "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=400&h=400&fit=crop",
		Rating:        4.4,
		Reviews:       92,
		Category:      "Fitness",
		Description:   "Non-slip yoga mat with excellent cushioning and durability.",
		InStock:       false,
	},
	{
		ID:            "7",
		Name:          "Wireless Phone Charger",
		Price:         3499,
		OriginalPrice: 4999,
		Image:         "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=400&h=400&fit=crop",
		Rating:        4.1,
		Reviews:       78,
		Category:      "Electronics",
		Description:   "Fast wireless charging pad compatible with all Qi-enabled devices.",
		InStock:       true,
	},
	{
		ID:            "8",
		Name:          "Succulent Plant Set",
		Price:         1999,
		OriginalPrice: 2999,
		Image:         "https://images.unsplash.com/photo-1459411621453-7b03977f4bfc?w=400&h=400&fit=crop",
		Rating:        4.8,
		Reviews:       156,
		Category:      "Home",
		Description:   "Set of 3 beautiful succulent plants in decorative pots.",
		InStock:       true,
	},
}
