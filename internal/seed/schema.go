package seed

// schemaJSON describes a seed file.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "categories": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1, "maxLength": 200}
        }
      }
    },
    "products": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name", "price"],
        "properties": {
          "id": {"type": "string", "format": "uuid"},
          "name": {"type": "string", "minLength": 1, "maxLength": 200},
          "description": {"type": "string"},
          "price": {
            "oneOf": [
              {"type": "number", "minimum": 0},
              {"type": "string", "pattern": "^[0-9]+(\\.[0-9]+)?$"}
            ]
          },
          "currency": {"type": "string", "pattern": "^[A-Za-z]{3}$"},
          "category": {"type": "string", "minLength": 1},
          "isActive": {"type": "boolean"},
          "weightKg": {"type": "number", "minimum": 0},
          "widthCm": {"type": "number", "minimum": 0},
          "heightCm": {"type": "number", "minimum": 0},
          "depthCm": {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`
