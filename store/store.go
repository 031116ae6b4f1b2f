package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.CatalogStore（读侧）/ core.CatalogWriter（写侧）/ core.Catalog（组合）。
//
// 示例：
//   var catalog core.Catalog = NewMemoryCatalog()
//   var catalog core.Catalog = mustRedis(NewRedisCatalog("localhost:6379", 0))
