package enum

type DbType string

const (
	MYSQL  DbType = `mysql`
	SQLITE DbType = `sqlite3`
)

type Msg string

const (
	DefaultSuccessMsg Msg = `ok`
	DefaultFailMsg    Msg = `错误`
)

type ResCode int8

const (
	SuccessCode   ResCode = 0
	ErrorCode     ResCode = 1
	AuthErrorCode ResCode = 2
)

type LlmSize string

const (
	ModelSmall  LlmSize = "small"
	ModelMedium LlmSize = "medium"
	ModelLarge  LlmSize = "large"
)

// ResponseFormat 对应补全接口的 response_format
type ResponseFormat string

const (
	ResponseFormatText       ResponseFormat = "text"
	ResponseFormatJsonObject ResponseFormat = "json_object"
)

// Intent 用户单轮消息的意图分类
type Intent string

const (
	IntentGreeting        Intent = "GREETING"
	IntentSearchProduct   Intent = "SEARCH_PRODUCT"
	IntentCompareProduct  Intent = "COMPARE_PRODUCT"
	IntentConsulting      Intent = "CONSULTING"
	IntentTechnicalAdvice Intent = "TECHNICAL_ADVICE"
	IntentOther           Intent = "OTHER"
)

// Intents 全部意图, 顺序与分类提示词一致
var Intents = []Intent{
	IntentGreeting,
	IntentSearchProduct,
	IntentCompareProduct,
	IntentConsulting,
	IntentTechnicalAdvice,
	IntentOther,
}

func (i Intent) Valid() bool {
	for _, v := range Intents {
		if v == i {
			return true
		}
	}
	return false
}

type SortBy string

const (
	SortByPriceAsc  SortBy = "price_asc"
	SortByPriceDesc SortBy = "price_desc"
	SortByNewest    SortBy = "newest"
)

var SortBys = []SortBy{SortByPriceAsc, SortByPriceDesc, SortByNewest}

func (s SortBy) Valid() bool {
	for _, v := range SortBys {
		if v == s {
			return true
		}
	}
	return false
}

// SlotKey 咨询流程需要收集的字段
type SlotKey string

const (
	SlotCategory SlotKey = "category"
	SlotPurpose  SlotKey = "purpose"
	SlotBudget   SlotKey = "budget"
	SlotBrand    SlotKey = "brand"
	SlotPriority SlotKey = "priority"
	SlotPhone    SlotKey = "phone"
)

// SlotKeys 提取器输出的全部字段
var SlotKeys = []SlotKey{SlotCategory, SlotBudget, SlotBrand, SlotPurpose, SlotPriority, SlotPhone}

// SlotPendingSentinel 线上格式中"已提问但未回答"的占位值
const SlotPendingSentinel = "N/A"

type ReplyMsg string

const (
	ReplyMsgGreeting        ReplyMsg = `Xin chào! Mình là trợ lý tư vấn của cửa hàng. Anh/chị đang tìm laptop, PC, linh kiện hay phụ kiện ạ?`
	ReplyMsgFallback        ReplyMsg = `Xin lỗi, mình chưa hiểu rõ ý anh/chị. Anh/chị có thể nói rõ hơn sản phẩm hoặc nhu cầu đang quan tâm không ạ?`
	ReplyMsgNoProduct       ReplyMsg = `Hiện cửa hàng chưa có sản phẩm phù hợp với yêu cầu này. Anh/chị thử mô tả nhu cầu khác hoặc nới khoảng giá nhé.`
	ReplyMsgCompareNeedMore ReplyMsg = `Anh/chị muốn so sánh những sản phẩm nào ạ? Vui lòng cho mình biết tên ít nhất 2 sản phẩm.`
	ReplyMsgBusy            ReplyMsg = `Mình đang xử lý tin nhắn trước của anh/chị, vui lòng chờ một chút nhé.`
	ReplyMsgLeadSaved       ReplyMsg = `Cảm ơn anh/chị! Nhân viên sẽ liên hệ qua số điện thoại đã cung cấp để tư vấn thêm.`
)
