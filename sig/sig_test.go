// Copyright 2018 The Jadep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sig

import "testing"

func TestClassSigRoundTrip(t *testing.T) {
	tests := []string{
		"Ljava/lang/Object;",
		"<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Comparable<TT;>;",
		"Ljava/util/AbstractMap<TK;TV;>;Ljava/util/Map<TK;TV;>;",
		"<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/lang/Object;",
		"Ljava/util/HashMap<TK;TV;>.EntrySet;",
		"Lcom/example/Outer<Ljava/lang/String;>.Inner<Ljava/lang/Integer;>;",
		"Ljava/util/List<+Ljava/lang/Number;>;",
		"Ljava/util/List<-Ljava/lang/Number;>;",
		"Ljava/util/List<*>;",
		"<T::Ljava/lang/Comparable<TT;>;>Ljava/lang/Object;",
	}
	for _, s := range tests {
		cs, err := ParseClassSig(s)
		if err != nil {
			t.Errorf("ParseClassSig(%q) failed: %v", s, err)
			continue
		}
		got := WriteClassSig(cs)
		if got != s {
			t.Errorf("WriteClassSig(ParseClassSig(%q)) = %q, want %q", s, got, s)
		}
	}
}

func TestFieldSigRoundTrip(t *testing.T) {
	tests := []string{
		"Ljava/lang/String;",
		"[Ljava/lang/String;",
		"[[I",
		"TT;",
		"Ljava/util/List<Ljava/lang/String;>;",
		"[Ljava/util/List<+Ljava/lang/Object;>;",
	}
	for _, s := range tests {
		ty, err := ParseFieldSig(s)
		if err != nil {
			t.Errorf("ParseFieldSig(%q) failed: %v", s, err)
			continue
		}
		got := WriteFieldSig(ty)
		if got != s {
			t.Errorf("WriteFieldSig(ParseFieldSig(%q)) = %q, want %q", s, got, s)
		}
	}
}

func TestMethodSigRoundTrip(t *testing.T) {
	tests := []string{
		"()V",
		"(I)Ljava/lang/String;",
		"<T:Ljava/lang/Object;>(TT;)TT;",
		"(Ljava/lang/String;)V^Ljava/io/IOException;",
		"(TT;I[Ljava/lang/Object;)V",
		"<T:Ljava/lang/Exception;>()V^TT;",
	}
	for _, s := range tests {
		ms, err := ParseMethodSig(s)
		if err != nil {
			t.Errorf("ParseMethodSig(%q) failed: %v", s, err)
			continue
		}
		got := WriteMethodSig(ms)
		if got != s {
			t.Errorf("WriteMethodSig(ParseMethodSig(%q)) = %q, want %q", s, got, s)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"Ljava/lang/Object",  // missing trailing ';'
		"java/lang/Object;", // missing leading 'L'
	}
	for _, s := range tests {
		if _, err := ParseFieldSig(s); err == nil {
			t.Errorf("ParseFieldSig(%q) succeeded, want error", s)
		}
	}
}
