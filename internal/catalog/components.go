package catalog

import "fmt"

// Component identifies a physical part by category and spec.
// It is a comparable value type so it can be used directly as a map key
// for price lists and warehouse stock.
type Component struct {
	Category string `json:"category"`
	Spec     string `json:"spec"`
}

// Component categories.
const (
	CategoryScreen  = "screen"
	CategoryBattery = "battery"
	CategoryRAM     = "ram"
	CategoryStorage = "storage"
)

// Known component specs.
var (
	Screen5in      = Component{Category: CategoryScreen, Spec: "5in"}
	Screen7in      = Component{Category: CategoryScreen, Spec: "7in"}
	Battery2000mAh = Component{Category: CategoryBattery, Spec: "2000mAh"}
	Battery3000mAh = Component{Category: CategoryBattery, Spec: "3000mAh"}
	RAM4GB         = Component{Category: CategoryRAM, Spec: "4GB"}
	RAM8GB         = Component{Category: CategoryRAM, Spec: "8GB"}
	Storage64GB    = Component{Category: CategoryStorage, Spec: "64GB"}
	Storage256GB   = Component{Category: CategoryStorage, Spec: "256GB"}
)

// AllComponents lists every component a supplier may stock.
func AllComponents() []Component {
	return []Component{
		Screen5in, Screen7in,
		Battery2000mAh, Battery3000mAh,
		RAM4GB, RAM8GB,
		Storage64GB, Storage256GB,
	}
}

func (c Component) String() string {
	return fmt.Sprintf("%s %s", c.Spec, c.Category)
}
