// Package sceneio provides JSON serialization for scene documents.
//
// # Overview
//
// The format round-trips the full element table: id, type tag, world
// position, rotation, parent link, visibility, and the complete geometry
// descriptor. The four fields owned by the aperture engine - radius, cone
// angle, ray model, and the up-axis flip state - are preserved exactly, so
// a re-imported scene continues propagating from the same state it was
// exported with.
//
// # Format
//
//	{
//	  "name": "bench",
//	  "elements": [
//	    {
//	      "id": 1, "type": "laser", "x": 0, "y": 0,
//	      "descriptor": {
//	        "pivot": {"x": 0, "y": 0},
//	        "up": {"x": 0, "y": -1},
//	        "forward": {"x": 1, "y": 0},
//	        "radius": 15,
//	        "ray_model": "collimated"
//	      }
//	    },
//	    {
//	      "id": 2, "type": "lens", "x": 150, "y": 0, "parent_id": 1,
//	      "descriptor": { ... "ray_model": "divergent", "cone_angle": 5.71 }
//	    }
//	  ]
//	}
//
// Child lists are never serialized; they are back-references rebuilt from
// the parent links on import. The same Document types carry bson tags and
// back the Mongo store.
package sceneio
