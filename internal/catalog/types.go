package catalog

import "encoding/json"

// image is the provider's image shape: a URL under "#text" keyed by size name.
type image struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

// artistField tolerates the provider returning an artist as either a bare
// string or a full object depending on the endpoint.
type artistField struct {
	Name string
	MBID string
	URL  string
}

func (a *artistField) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		a.Name = name
		return nil
	}

	var obj struct {
		Name string `json:"name"`
		MBID string `json:"mbid"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	a.Name = obj.Name
	a.MBID = obj.MBID
	a.URL = obj.URL
	return nil
}

type albumPayload struct {
	MBID   string      `json:"mbid"`
	Name   string      `json:"name"`
	Artist artistField `json:"artist"`
	URL    string      `json:"url"`
	Images []image     `json:"image"`
}

// albumList tolerates the provider returning a single object where a list has
// exactly one element.
type albumList []albumPayload

func (l *albumList) UnmarshalJSON(data []byte) error {
	var many []albumPayload
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}

	var one albumPayload
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}

	*l = albumList{one}
	return nil
}

type searchResponse struct {
	Results struct {
		AlbumMatches struct {
			Album albumList `json:"album"`
		} `json:"albummatches"`
	} `json:"results"`
}

type albumInfoResponse struct {
	Album albumPayload `json:"album"`
}

type artistInfoResponse struct {
	Artist struct {
		Name  string  `json:"name"`
		MBID  string  `json:"mbid"`
		URL   string  `json:"url"`
		Image []image `json:"image"`
		Stats struct {
			Listeners string `json:"listeners"`
		} `json:"stats"`
		Bio struct {
			Summary string `json:"summary"`
		} `json:"bio"`
	} `json:"artist"`
}

type topAlbumsResponse struct {
	TopAlbums struct {
		Album albumList `json:"album"`
	} `json:"topalbums"`
}

type tagAlbumsResponse struct {
	Albums struct {
		Album albumList `json:"album"`
	} `json:"albums"`
}

// apiError is the provider's coded error envelope, returned with HTTP 200 on
// some failures.
type apiError struct {
	Code    int    `json:"error"`
	Message string `json:"message"`
}
