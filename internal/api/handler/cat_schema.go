package handler

const dateLayout = "2006-01-02"

// --- Requests ---

// locationRequest is a GeoJSON point; coordinates are [longitude, latitude].
type locationRequest struct {
	Type        string    `json:"type" validate:"omitempty,eq=Point"`
	Coordinates []float64 `json:"coordinates" validate:"len=2"`
}

type createCatRequest struct {
	CatName   string          `json:"cat_name" validate:"required,min=2"`
	Weight    float64         `json:"weight" validate:"required,gt=0"`
	Filename  string          `json:"filename"`
	Birthdate string          `json:"birthdate" validate:"required,datetime=2006-01-02"`
	Location  locationRequest `json:"location"`
}

// updateCatRequest is a partial update; omitted fields stay unchanged.
// Owner may only be changed by an admin.
type updateCatRequest struct {
	CatName   *string          `json:"cat_name" validate:"omitempty,min=2"`
	Weight    *float64         `json:"weight" validate:"omitempty,gt=0"`
	Owner     *string          `json:"owner" validate:"omitempty,min=1"`
	Filename  *string          `json:"filename"`
	Birthdate *string          `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Location  *locationRequest `json:"location"`
}

// --- Responses ---

type locationResponse struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// catResponse carries the owner as a publicUser when it could be joined and
// as the bare owner id otherwise.
type catResponse struct {
	ID        string           `json:"id"`
	CatName   string           `json:"cat_name"`
	Weight    float64          `json:"weight"`
	Owner     any              `json:"owner"`
	Filename  string           `json:"filename,omitempty"`
	Birthdate string           `json:"birthdate"`
	Location  locationResponse `json:"location"`
}

type deletedCatResponse struct {
	ID string `json:"id"`
}
