package catalog

// Product is a finished good assembled from a fixed bill of components.
type Product struct {
	Name       string      `json:"name"`
	Components []Component `json:"components"`
}

// The two phone models the manufacturer can assemble.
var (
	SmallPhone = Product{
		Name:       "small-phone",
		Components: []Component{Screen5in, Battery2000mAh, RAM4GB, Storage64GB},
	}
	Phablet = Product{
		Name:       "phablet",
		Components: []Component{Screen7in, Battery3000mAh, RAM8GB, Storage256GB},
	}
)

// Products lists every assemblable product.
func Products() []Product {
	return []Product{SmallPhone, Phablet}
}

// ProductByName looks a product up by its name.
func ProductByName(name string) (Product, bool) {
	for _, p := range Products() {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}
