package folder

import "encoding/json"

// Favorite is a bookmarked folder reference. Name is a snapshot so the entry
// can be rendered without resolving the folder.
type Favorite struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// MarshalFavorites serialises favorites in order.
func MarshalFavorites(favs []Favorite) ([]byte, error) {
	if favs == nil {
		favs = []Favorite{}
	}
	return json.MarshalIndent(favs, "", "  ")
}

// UnmarshalFavorites deserialises favorites and upgrades a legacy array of ids.
func UnmarshalFavorites(data []byte) ([]Favorite, error) {
	if len(data) == 0 {
		return []Favorite{}, nil
	}
	var favs []Favorite
	if err := json.Unmarshal(data, &favs); err == nil {
		return favs, nil
	}
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	favs = make([]Favorite, 0, len(legacy))
	for _, id := range legacy {
		favs = append(favs, Favorite{ID: id})
	}
	return favs, nil
}
