package domain

// Dimension describes the shipping package in centimeters.
type Dimension struct {
	PackageLength int `json:"package_length"`
	PackageWidth  int `json:"package_width"`
	PackageHeight int `json:"package_height"`
}

// Brand carries an unregistered brand name; brand_id 0 means "no brand id yet".
type Brand struct {
	BrandID           int64  `json:"brand_id"`
	OriginalBrandName string `json:"original_brand_name,omitempty"`
}

// PreOrder marks a listing as pre-order with a promised ship window.
type PreOrder struct {
	IsPreOrder bool `json:"is_pre_order"`
	DaysToShip int  `json:"days_to_ship"`
}

// ProductImage references marketplace-side image ids obtained from the
// media space upload endpoint.
type ProductImage struct {
	ImageIDList []string `json:"image_id_list"`
}

// AttributeValue is one selectable value of a category attribute.
type AttributeValue struct {
	ValueID           int64  `json:"value_id,omitempty"`
	OriginalValueName string `json:"original_value_name,omitempty"`
	ValueUnit         string `json:"value_unit,omitempty"`
}

// Attribute describes one attribute of a category's schema.
type Attribute struct {
	AttributeID           int64            `json:"attribute_id"`
	OriginalAttributeName string           `json:"original_attribute_name"`
	DisplayAttributeName  string           `json:"display_attribute_name"`
	IsMandatory           bool             `json:"is_mandatory"`
	InputType             string           `json:"input_type"`
	AttributeValueList    []AttributeValue `json:"attribute_value_list,omitempty"`
}

// ProductRequest is the outbound add_item payload. It is constructed fresh
// per publish call and never mutated afterwards.
type ProductRequest struct {
	ItemName      string       `json:"item_name"`
	Description   string       `json:"description"`
	CategoryID    int64        `json:"category_id"`
	OriginalPrice float64      `json:"original_price"`
	NormalStock   int          `json:"normal_stock"`
	Weight        int          `json:"weight"`
	Dimension     Dimension    `json:"dimension"`
	ItemStatus    string       `json:"item_status"`
	Image         ProductImage `json:"image"`
	AttributeList []Attribute  `json:"attribute_list,omitempty"`
	PreOrder      *PreOrder    `json:"pre_order,omitempty"`
	Brand         *Brand       `json:"brand,omitempty"`
}

// ItemStatusNormal is the only status this layer publishes with.
const ItemStatusNormal = "NORMAL"

// ItemResult is the marketplace's identity for a created listing.
type ItemResult struct {
	ItemID     int64  `json:"item_id"`
	ItemStatus string `json:"item_status"`
	CreateTime int64  `json:"create_time"`
}

// Category is one node of the marketplace category tree.
type Category struct {
	CategoryID           int64  `json:"category_id"`
	ParentCategoryID     int64  `json:"parent_category_id"`
	OriginalCategoryName string `json:"original_category_name"`
	DisplayCategoryName  string `json:"display_category_name"`
	HasChildren          bool   `json:"has_children"`
}
