package prompt

import "github.com/andrej220/provkit/internal/lg"

// CollectData asks "Input <name> [textAppend]" for every field, in order,
// and returns the answers keyed by field name.
func (c *Collector) CollectData(fields []Field, textAppend string) (map[string]string, error) {
	data := make(map[string]string, len(fields))
	for _, f := range fields {
		answer, err := c.Response(question(f.Name, textAppend), nil, f.Sensitive)
		if err != nil {
			return nil, err
		}
		data[f.Name] = answer
		c.logger.Debug("collected field", lg.String("field", f.Name), lg.Bool("sensitive", f.Sensitive))
	}
	return data, nil
}
