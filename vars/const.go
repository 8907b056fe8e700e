package vars

import (
	"os"
	"time"
)

// GetEnv 获取环境变量，如果不存在则返回默认值
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

const (
	// 模型名称
	QWEN7B  = "qwen2.5:7b"
	QWEN3B  = "qwen2.5:3b"
	NOMIC   = "nomic-embed-text"
	BGEM3   = "bge-m3"
	GPT4O   = "gpt-4o-mini"

	// Milvus Collection / ES Index 名称
	COLLECTION = "legal_chunks_v1"
	ESINDEX    = "legal_chunks_v1"

	// LLM 提供方
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

const (
	// 单次批量分析只取文档前缀，控制下游成本和延迟（故意截断，不是 bug）
	MaxPromptChars = 4000
	// 推荐问题的 Prompt 取更短前缀
	MaxSuggestChars = 3000
	// 超过该长度的文档在 QA 时先做向量检索取上下文
	QAContextChars = 6000

	// 每次 LLM 调用的固定预算，只尝试一次，失败即降级，不重试
	LLMTimeout = 60 * time.Second
)

// 环境变量配置（支持 Docker 部署）
var (
	// HTTP
	HTTPADDR = GetEnv("HTTP_ADDR", ":8081")

	// LLM
	LLMPROVIDER = GetEnv("LLM_PROVIDER", ProviderOllama) // ollama / openai / none
	OLLAMA_PATH = GetEnv("OLLAMA_PATH", "http://localhost:11434")
	OPENAI_BASE = GetEnv("OPENAI_BASE_URL", "")
	OPENAI_KEY  = GetEnv("OPENAI_API_KEY", "")

	// PG
	PGUSER = GetEnv("PGUSER", "root")
	PGPWD  = GetEnv("PGPWD", "root")
	PGDB   = GetEnv("PGDB", "legalsense")
	PGHOST = GetEnv("PGHOST", "localhost")
	PGPORT = GetEnv("PGPORT", "5432")

	// Milvus
	MILVUSADDR = GetEnv("MILVUSADDR", "127.0.0.1:19530")

	// ES
	ESADDR = GetEnv("ESADDR", "http://localhost:9200")

	// 文档保留天数，超期由定时任务清理
	RETENTIONDAYS = GetEnv("RETENTION_DAYS", "180")
)

// 提示词
const (
	// BATCHANALYZE 单次调用提取全部结构化信息（1 次调用替代原来的 7+ 次）
	BATCHANALYZE = `
Analyze this legal document and extract key information. Return ONLY a valid JSON object with this exact structure:

{
    "document_info": {
        "title": "Document title or type",
        "type": "Contract/Agreement/Other",
        "notes": []
    },
    "parties": [
        {"name": "Party name", "role": "Lessor/Lessee/Employer/Employee/PartyA/PartyB/Vendor/Customer/Other"}
    ],
    "dates": {
        "effective_date": "Date if found or null",
        "termination_date": "Date if found or null"
    },
    "obligations": [
        "Key obligation 1",
        "Key obligation 2"
    ],
    "clauses": [
        {
            "title": "Clause title",
            "original_text": "Brief clause text",
            "simplified_text": "Simple explanation",
            "category": "Financial/Legal/Compliance/Termination/General",
            "risk_level": "Low/Medium/High"
        }
    ],
    "summary": "2-3 sentence summary",
    "risk_analysis": {
        "financial_score": 25,
        "legal_score": 30,
        "compliance_score": 20,
        "termination_score": 15,
        "recommendations": ["Recommendation 1", "Recommendation 2"]
    }
}

Document text to analyze:
{{.Content}}

IMPORTANT: Return ONLY the JSON object, no other text.
`

	// QAPROMPT 针对单个问题的回答
	QAPROMPT = `
You are a legal document assistant. Answer the following question about the legal document provided.

Document content:
{{.Content}}

Question: {{.Question}}

Instructions:
1. Answer based only on the information in the document
2. If the information is not in the document, say so
3. Provide specific references to relevant sections when possible
4. Keep answers concise but informative (max 200 words)
5. Use professional legal language

Answer:
`

	// SUGGEST 生成推荐问题
	SUGGEST = `
Based on this legal document, generate 5 relevant questions. Return ONLY a JSON array like this:
["Question 1", "Question 2", "Question 3", "Question 4", "Question 5"]

Document content:
{{.Content}}
`
)
