/*
Copyright © 2024 the lineselect authors.
This file is part of lineselect.

lineselect is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

lineselect is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with lineselect.  If not, see <http://www.gnu.org/licenses/>.
*/

package layer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/ctessum/geom/proj"
	"github.com/jackc/pgx/v4"
	"github.com/spatialmodel/lineselect"
)

// LoadPostGIS reads a layer from the PostGIS database at url. query must
// return two columns: an integer feature id and the feature geometry as
// GeoJSON text, for example
//
//	SELECT gid, ST_AsGeoJSON(geom) FROM roads
//
// sr is the spatial reference of the returned coordinates. Connecting is
// retried with exponential backoff.
func LoadPostGIS(ctx context.Context, name, url, query string, sr *proj.SR) (*Layer, error) {
	var conn *pgx.Conn
	err := backoff.Retry(func() error {
		var err error
		conn, err = pgx.Connect(ctx, url)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10), ctx))
	if err != nil {
		return nil, fmt.Errorf("layer: %s: connecting to PostGIS: %v", name, err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("layer: %s: querying PostGIS: %v", name, err)
	}
	defer rows.Close()

	var features []lineselect.Feature
	for rows.Next() {
		var (
			id  int64
			txt *string
		)
		if err := rows.Scan(&id, &txt); err != nil {
			return nil, fmt.Errorf("layer: %s: reading PostGIS row: %v", name, err)
		}
		f := lineselect.Feature{ID: lineselect.FeatureID(id)}
		if txt != nil {
			var g geometry
			if err := json.Unmarshal([]byte(*txt), &g); err != nil {
				return nil, fmt.Errorf("layer: %s: feature %d: %v", name, id, err)
			}
			if f.Geom, err = decodeGeometry(&g); err != nil {
				return nil, fmt.Errorf("layer: %s: feature %d: %v", name, id, err)
			}
		}
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("layer: %s: reading PostGIS rows: %v", name, err)
	}
	return New(name, sr, features)
}
