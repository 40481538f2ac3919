package legion

type factory struct{}

var Factory factory

func (f factory) NewStorage() Storage {
	return newStorage(Config.Logger())
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, storage Storage) *Cursor {
	return newCursor(query, storage)
}

func (f factory) NewChunkBuilder() *ChunkBuilder {
	return NewChunkBuilder()
}
