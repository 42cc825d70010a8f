package user

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"gitee.com/taoJie_1/mall-advisor/dao"
	"gitee.com/taoJie_1/mall-advisor/internal/llm"
	"gitee.com/taoJie_1/mall-advisor/internal/metrics"
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/db"
	"gitee.com/taoJie_1/mall-advisor/model/dto"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"gitee.com/taoJie_1/mall-advisor/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyMessage = errors.New("消息内容不能为空")

// ChatService 处理店铺聊天窗口的每一条消息
type ChatService interface {
	Chat(ctx context.Context, req *common.ChatRequest) (*dto.ChatReply, error)
	// Reset 丢弃会话的全部状态
	Reset(ctx context.Context, sessionID string) error
	// Script 咨询脚本的公开描述
	Script() []dto.ScriptStep
}

type leadRepo interface {
	Insert(lead *db.ConsultLead, tx ...*sqlx.Tx) error
}

// ChatDeps 编排层依赖的组件
type ChatDeps struct {
	Llm          llm.Service
	Classifier   IntentClassifier
	Extractor    SlotExtractor
	ScriptEngine ScriptEngine
	Knowledge    KnowledgeProvider
	Catalog      Catalog
	Sessions     SessionStore
	Leads        leadRepo
	Metrics      *metrics.AdvisorMetrics
}

type ChatOptions struct {
	HistoryWindow int
	SearchLimit   int
	ContextLimit  int
	// 全部问完后仍有字段未填时最多从头补问的轮数
	MaxRounds     int
	ResetKeywords []string
	GreetingReply string
	FallbackReply string
	// 顾问回答使用的模型
	AdvisorSize enum.LlmSize
}

// turn 单轮消息的处理上下文
type turn struct {
	session *common.Session
	message string
	intent  *common.IntentResult
	// 咨询进行中时与分类并发提取, 否则为 nil
	slots *common.SlotRecord
}

type intentHandler func(ctx context.Context, t *turn) *dto.ChatReply

type chatService struct {
	ChatDeps
	opts     ChatOptions
	log      *logrus.Logger
	handlers map[enum.Intent]intentHandler
}

func NewChatService(deps ChatDeps, opts ChatOptions, log *logrus.Logger) ChatService {
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 5
	}
	if opts.ContextLimit <= 0 {
		opts.ContextLimit = 8
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = 10
	}
	if opts.GreetingReply == "" {
		opts.GreetingReply = string(enum.ReplyMsgGreeting)
	}
	if opts.FallbackReply == "" {
		opts.FallbackReply = string(enum.ReplyMsgFallback)
	}
	keywords := make([]string, 0, len(opts.ResetKeywords))
	for _, k := range opts.ResetKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	opts.ResetKeywords = keywords
	if opts.AdvisorSize == "" {
		opts.AdvisorSize = enum.ModelSmall
	}
	if deps.ScriptEngine == nil {
		deps.ScriptEngine = NewScriptEngine()
	}
	if deps.Knowledge == nil {
		deps.Knowledge = NewKnowledgeProvider("")
	}

	s := &chatService{ChatDeps: deps, opts: opts, log: log}
	s.handlers = map[enum.Intent]intentHandler{
		enum.IntentGreeting:        s.greet,
		enum.IntentSearchProduct:   s.search,
		enum.IntentCompareProduct:  s.compare,
		enum.IntentConsulting:      s.consult,
		enum.IntentTechnicalAdvice: s.advise,
		enum.IntentOther:           s.other,
	}
	return s
}

func (s *chatService) Script() []dto.ScriptStep {
	return s.ScriptEngine.Steps()
}

func (s *chatService) Reset(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return errors.New("会话ID不能为空")
	}
	return s.Sessions.Delete(ctx, sessionID)
}

func (s *chatService) Chat(ctx context.Context, req *common.ChatRequest) (*dto.ChatReply, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	message := strings.TrimSpace(req.Message)
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	unlock, err := s.Sessions.Lock(ctx, sessionID)
	if errors.Is(err, ErrSessionBusy) {
		return textReply(sessionID, enum.IntentOther, string(enum.ReplyMsgBusy)), nil
	}
	if err != nil {
		s.log.Errorf("获取会话锁失败[ch1a]: %v", err)
		s.Metrics.ObserveFallback("session")
		return textReply(sessionID, enum.IntentOther, s.opts.FallbackReply), nil
	}
	defer unlock()

	session, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		s.log.Errorf("读取会话失败[ch1b]: %v", err)
		s.Metrics.ObserveFallback("session")
		return textReply(sessionID, enum.IntentOther, s.opts.FallbackReply), nil
	}

	reply := s.handle(ctx, session, message)

	session.AppendHistory(s.opts.HistoryWindow,
		common.LlmMessage{Role: openai.ChatMessageRoleUser, Content: message},
		common.LlmMessage{Role: openai.ChatMessageRoleAssistant, Content: reply.Reply},
	)
	session.UpdatedAt = time.Now().Unix()
	if err := s.Sessions.Save(ctx, session); err != nil {
		s.log.Errorf("保存会话失败[ch1c]: %v", err)
	}

	s.Metrics.ObserveIntent(string(reply.Intent))
	return reply, nil
}

// handle 分类并分发到对应的处理函数, 处理函数 panic 时返回兜底回复
func (s *chatService) handle(ctx context.Context, session *common.Session, message string) (reply *dto.ChatReply) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("处理会话 %s 发生panic[ch2p]: %v\n%s", session.ID, r, debug.Stack())
			s.Metrics.ObserveFallback("panic")
			reply = textReply(session.ID, enum.IntentOther, s.opts.FallbackReply)
		}
	}()

	t := &turn{session: session, message: message}

	if utils.ContainsAny(strings.ToLower(message), s.opts.ResetKeywords) {
		session.ResetConsult()
		t.intent = &common.IntentResult{Intent: enum.IntentConsulting}
		return s.consult(ctx, t)
	}

	if session.Consult.Active {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			t.intent = s.Classifier.Classify(gctx, message)
			return nil
		})
		g.Go(func() error {
			t.slots = s.Extractor.Extract(gctx, message)
			return nil
		})
		_ = g.Wait()
	} else {
		t.intent = s.Classifier.Classify(ctx, message)
	}
	if t.intent == nil {
		t.intent = common.DefaultIntentResult()
	}

	intent := t.intent.Intent
	// 简短的回答(如"20 triệu")常被分为 OTHER, 咨询中一律视为继续咨询
	if session.Consult.Active && (intent == enum.IntentConsulting || intent == enum.IntentOther) {
		return s.consult(ctx, t)
	}
	if session.Consult.Active && t.slots != nil {
		session.Consult.Slots.Merge(t.slots)
	}

	handler, ok := s.handlers[intent]
	if !ok {
		handler = s.handlers[enum.IntentOther]
	}
	return handler(ctx, t)
}

func (s *chatService) greet(ctx context.Context, t *turn) *dto.ChatReply {
	return textReply(t.session.ID, enum.IntentGreeting, s.opts.GreetingReply)
}

func (s *chatService) other(ctx context.Context, t *turn) *dto.ChatReply {
	return textReply(t.session.ID, enum.IntentOther, s.opts.FallbackReply)
}

func (s *chatService) search(ctx context.Context, t *turn) *dto.ChatReply {
	q := &t.intent.Query
	f := &dao.ProductFilter{
		Keyword:  q.Keyword,
		PriceMin: q.PriceMin,
		PriceMax: q.PriceMax,
		Limit:    s.opts.SearchLimit,
	}
	if f.Keyword == "" && q.DeviceModel != nil {
		f.Keyword = *q.DeviceModel
	}
	if q.Category != nil {
		f.Category = *q.Category
	}
	if q.SortBy != nil && q.SortBy.Valid() {
		f.SortBy = *q.SortBy
	}
	if q.Quantity != nil && *q.Quantity > 0 && *q.Quantity < f.Limit {
		f.Limit = *q.Quantity
	}

	products, err := s.Catalog.Search(ctx, f)
	if err != nil {
		s.log.Errorf("商品搜索失败[ch3s]: %v", err)
		s.Metrics.ObserveFallback("catalog")
		return textReply(t.session.ID, enum.IntentSearchProduct, s.opts.FallbackReply)
	}
	if len(products) == 0 {
		return textReply(t.session.ID, enum.IntentSearchProduct, string(enum.ReplyMsgNoProduct))
	}

	reply := textReply(t.session.ID, enum.IntentSearchProduct, formatProductList(products))
	reply.Products = productCards(products)
	return reply
}

func (s *chatService) compare(ctx context.Context, t *turn) *dto.ChatReply {
	names := t.intent.Query.ProductsToCompare
	if len(names) < 2 {
		return textReply(t.session.ID, enum.IntentCompareProduct, string(enum.ReplyMsgCompareNeedMore))
	}

	products, err := s.Catalog.ByNames(ctx, names)
	if err != nil {
		s.log.Errorf("查询对比商品失败[ch3c]: %v", err)
		s.Metrics.ObserveFallback("catalog")
		return textReply(t.session.ID, enum.IntentCompareProduct, s.opts.FallbackReply)
	}
	if len(products) < 2 {
		return textReply(t.session.ID, enum.IntentCompareProduct, string(enum.ReplyMsgCompareNeedMore))
	}

	answer, err := s.askAdvisor(ctx, t.message, products, nil)
	if err != nil {
		s.log.Warnf("对比回答生成失败[ch3d]: %v", err)
		answer = formatProductList(products)
	}
	reply := textReply(t.session.ID, enum.IntentCompareProduct, answer)
	reply.Products = productCards(products)
	return reply
}

func (s *chatService) advise(ctx context.Context, t *turn) *dto.ChatReply {
	q := &t.intent.Query
	f := &dao.ProductFilter{Keyword: q.Keyword, PriceMin: q.PriceMin, PriceMax: q.PriceMax, Limit: s.opts.ContextLimit}
	if q.DeviceModel != nil {
		f.Keyword = *q.DeviceModel
	}
	if q.Category != nil {
		f.Category = *q.Category
	}

	products, err := s.Catalog.Search(ctx, f)
	if err != nil {
		// 没有商品上下文时顾问只会说明没有合适的商品
		s.log.Warnf("查询顾问上下文失败[ch3t]: %v", err)
	}

	answer, err := s.askAdvisor(ctx, t.message, products, t.session.History)
	if err != nil {
		s.log.Errorf("顾问回答生成失败[ch3u]: %v", err)
		s.Metrics.ObserveFallback("advisor")
		return textReply(t.session.ID, enum.IntentTechnicalAdvice, s.opts.FallbackReply)
	}
	return textReply(t.session.ID, enum.IntentTechnicalAdvice, answer)
}

// consult 推进咨询脚本, 全部字段收集完后给出推荐
func (s *chatService) consult(ctx context.Context, t *turn) *dto.ChatReply {
	c := &t.session.Consult
	if !c.Active {
		c.Active = true
		c.Step = -1
		c.Round = 0
	}

	if t.slots == nil {
		t.slots = s.Extractor.Extract(ctx, t.message)
	}
	c.Slots.Merge(t.slots)
	// 刚问过的问题仍没有答案
	if key, ok := s.ScriptEngine.KeyAt(c.Step); ok {
		c.Slots.MarkPending(key)
	}

	script := s.ScriptEngine
	next := script.NextStep(c.Step, &c.Slots)
	if next >= script.Len() && c.Round < s.opts.MaxRounds {
		if first := script.NextStep(-1, &c.Slots); first < script.Len() {
			next = first
			c.Round++
		}
	}

	if question, ok := script.QuestionFor(next, &c.Slots); ok {
		c.Step = next
		reply := textReply(t.session.ID, enum.IntentConsulting, question)
		reply.Consult = &dto.ConsultProgress{Step: next + 1, Total: script.Len(), Slots: c.Slots}
		return reply
	}
	return s.recommend(ctx, t)
}

// recommend 按收集到的字段推荐商品, 留有电话时保存线索并结束咨询
func (s *chatService) recommend(ctx context.Context, t *turn) *dto.ChatReply {
	slots := t.session.Consult.Slots
	f := &dao.ProductFilter{InStock: true, Limit: s.opts.ContextLimit}
	if slots.Category.IsFilled() {
		f.Category = slots.Category.Value
	}
	if slots.Brand.IsFilled() {
		f.Brand = slots.Brand.Value
	}
	if slots.Budget.IsFilled() {
		f.PriceMax = slots.Budget.Value
	}

	products, err := s.Catalog.Search(ctx, f)
	if err == nil && len(products) == 0 && f.Brand != "" {
		f.Brand = ""
		products, err = s.Catalog.Search(ctx, f)
	}
	if err != nil {
		s.log.Warnf("查询推荐商品失败[ch4a]: %v", err)
	}

	answer, err := s.askAdvisor(ctx, consultQuestion(&slots), products, nil)
	if err != nil {
		s.log.Errorf("推荐回答生成失败[ch4b]: %v", err)
		s.Metrics.ObserveFallback("advisor")
		if len(products) > 0 {
			answer = formatProductList(products)
		} else {
			answer = string(enum.ReplyMsgNoProduct)
		}
	}

	withLead := false
	if slots.Phone.IsFilled() {
		if err := s.saveLead(t.session.ID, &slots); err != nil {
			s.log.Errorf("保存咨询线索失败[ch4c]: %v", err)
		} else {
			withLead = true
			answer += "\n\n" + string(enum.ReplyMsgLeadSaved)
		}
	}
	s.Metrics.ObserveConsultCompleted(withLead)
	t.session.ResetConsult()

	total := s.ScriptEngine.Len()
	reply := textReply(t.session.ID, enum.IntentConsulting, answer)
	reply.Products = productCards(products)
	reply.Consult = &dto.ConsultProgress{Step: total, Total: total, Done: true, Slots: slots}
	return reply
}

func (s *chatService) saveLead(sessionID string, slots *common.SlotRecord) error {
	if s.Leads == nil {
		return errors.New("线索存储未初始化")
	}
	return s.Leads.Insert(&db.ConsultLead{
		SessionId: sessionID,
		Phone:     slots.Phone.Value,
		Category:  slots.Category.Value,
		Purpose:   slots.Purpose.Value,
		Budget:    slots.Budget.Value,
		Brand:     slots.Brand.Value,
		Priority:  slots.Priority.Value,
	})
}

func (s *chatService) askAdvisor(ctx context.Context, question string, products []db.Product, history []common.LlmMessage) (string, error) {
	if s.Llm == nil {
		return "", llm.ErrUnavailable
	}
	if len(products) > s.opts.ContextLimit {
		products = products[:s.opts.ContextLimit]
	}
	return s.Llm.ChatCompletionWithHistory(ctx, s.opts.AdvisorSize, s.Knowledge.AdvisoryInstruction(), buildAdvisorContent(question, products), history)
}

// consultQuestion 把收集到的需求整理成一个问题交给顾问
func consultQuestion(slots *common.SlotRecord) string {
	var b strings.Builder
	b.WriteString("Khách hàng cần tư vấn chọn sản phẩm với các nhu cầu sau:\n")
	if slots.Category.IsFilled() {
		fmt.Fprintf(&b, "- Loại sản phẩm: %s\n", slots.Category.Value)
	}
	if slots.Purpose.IsFilled() {
		fmt.Fprintf(&b, "- Mục đích sử dụng: %s\n", slots.Purpose.Value)
	}
	if slots.Budget.IsFilled() {
		fmt.Fprintf(&b, "- Ngân sách: %s VND\n", formatVnd(slots.Budget.Value))
	}
	if slots.Brand.IsFilled() {
		fmt.Fprintf(&b, "- Thương hiệu mong muốn: %s\n", slots.Brand.Value)
	}
	if slots.Priority.IsFilled() {
		fmt.Fprintf(&b, "- Ưu tiên: %s\n", slots.Priority.Value)
	}
	b.WriteString("Hãy đề xuất tối đa 3 sản phẩm phù hợp nhất và giải thích ngắn gọn.")
	return b.String()
}

func formatProductList(products []db.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mình tìm được %d sản phẩm phù hợp:", len(products))
	for i := range products {
		p := &products[i]
		stock := "còn hàng"
		if p.Stock <= 0 {
			stock = "hết hàng"
		}
		fmt.Fprintf(&b, "\n%d. %s - %sđ (%s, %s)", i+1, p.Name, formatVnd(p.Price), p.Brand, stock)
	}
	return b.String()
}

func productCards(products []db.Product) []dto.ProductCard {
	if len(products) == 0 {
		return nil
	}
	cards := make([]dto.ProductCard, len(products))
	for i := range products {
		p := &products[i]
		cards[i] = dto.ProductCard{
			ID:       p.Id,
			Name:     p.Name,
			Category: p.Category,
			Brand:    p.Brand,
			Price:    p.Price,
			InStock:  p.Stock > 0,
		}
	}
	return cards
}

func textReply(sessionID string, intent enum.Intent, text string) *dto.ChatReply {
	return &dto.ChatReply{SessionID: sessionID, Intent: intent, Reply: text}
}
