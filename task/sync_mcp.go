package task

import (
	"errors"
	"fmt"
	"sync"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/internal/mcp"
	"gitee.com/taoJie_1/mall-advisor/model/config"
)

// McpCapabilitiesReloader 重新连接MCP服务并刷新工具列表, 传入名称时只刷新该服务。
// 刷新后检查商品目录工具是否仍然可用, 不可用时商品检索会退回本地数据库。
func (m *Manager) McpCapabilitiesReloader(mcpName ...string) error {
	if global.McpService == nil {
		global.Log.Info("MCP服务未启用，跳过能力刷新任务")
		return nil
	}

	servers := global.Config.McpServers
	if len(mcpName) > 0 && mcpName[0] != "" {
		cfg, ok := servers[mcpName[0]]
		if !ok {
			return fmt.Errorf("未在配置中找到名为 '%s' 的MCP服务", mcpName[0])
		}
		servers = map[string]config.Mcp{mcpName[0]: cfg}
	}
	if len(servers) == 0 {
		global.Log.Info("未配置任何MCP服务，跳过能力刷新任务")
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for name, cfg := range servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := global.McpService.AddOrUpdateClient(name, cfg); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("刷新MCP服务 '%s' 失败: %w", name, err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	checkCatalogTool()

	if err := errors.Join(errs...); err != nil {
		global.Log.Error(err)
		return err
	}
	global.Log.Infof("已刷新 %d 个MCP服务的能力", len(servers))
	return nil
}

// checkCatalogTool 配置了远程商品目录时检查工具是否存在
func checkCatalogTool() {
	tool := global.Config.Ai.CatalogTool
	if tool == "" {
		return
	}
	clientName, toolName, ok := mcp.ParseToolName(tool)
	if !ok {
		global.Log.Warnf("商品目录工具名 '%s' 格式无效, 应为 服务名.工具名", tool)
		return
	}
	if !global.McpService.HasTool(clientName, toolName) {
		global.Log.Warnf("商品目录工具 '%s' 不可用, 商品检索将使用本地数据库", tool)
	}
}
